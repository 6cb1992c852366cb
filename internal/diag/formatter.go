package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	w           io.Writer
	sourceCache map[string]string // Cache of source files by filename
}

// NewFormatter creates a new diagnostic formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		w:           w,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers already loaded source text under filename.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format writes d with a snippet of every file it points into.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	spansByFile := make(map[string][]LabeledSpan)
	for _, span := range spans {
		filename := span.Span.Filename
		if filename == "" {
			filename = "<unknown>"
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}
	filenames := make([]string, 0, len(spansByFile))
	for name := range spansByFile {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	f.printHeader(d)

	for _, filename := range filenames {
		src, err := f.LoadSource(filename)
		if err != nil || src == "" {
			fmt.Fprintf(f.w, "  --> %s\n", spansByFile[filename][0].Span)
			continue
		}
		f.printFileSpans(filename, src, spansByFile[filename])
	}

	f.printHelp(d)
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}

	if d.Code != "" {
		fmt.Fprintf(f.w, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.w, "%s: %s\n", severity, d.Message)
	}
}

// printFileSpans prints source code with underlines for spans in a file.
func (f *Formatter) printFileSpans(filename string, src string, spans []LabeledSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	spansByLine := make(map[int][]LabeledSpan)
	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	if len(lineNumbers) == 0 {
		return
	}

	// Two lines of context either side
	contextStart := max(1, lineNumbers[0]-2)
	contextEnd := min(maxLine, lineNumbers[len(lineNumbers)-1]+2)

	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	gutter := strings.Repeat(" ", lineNumWidth)

	fmt.Fprintf(f.w, "  --> %s\n", spans[0].Span)
	fmt.Fprintf(f.w, "   %s |\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := strings.TrimSuffix(lines[lineNum-1], "\r")
		fmt.Fprintf(f.w, " %*d | %s\n", lineNumWidth, lineNum, lineContent)

		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(gutter, src, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.w, "   %s |\n", gutter)
}

// printUnderlines prints ^ under primary spans and ~ under secondary ones.
// Columns are rune based; a span running past the line is clipped to it.
func (f *Formatter) printUnderlines(gutter, src, lineContent string, spans []LabeledSpan) {
	width := len([]rune(lineContent))
	underline := []rune(strings.Repeat(" ", max(width, 1)))

	mark := func(span LabeledSpan, ch rune, overwrite bool) {
		start := max(0, span.Span.Column-1)
		end := min(len(underline), start+max(1, spanWidth(src, span.Span)))
		for i := start; i < end; i++ {
			if overwrite || underline[i] == ' ' {
				underline[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style != "secondary" {
			mark(span, '^', true)
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span, '~', false)
		}
	}

	fmt.Fprintf(f.w, "   %s | %s", gutter, strings.TrimRight(string(underline), " "))

	var secondaryLabels []string
	for _, span := range spans {
		if span.Label == "" {
			continue
		}
		if span.Style == "secondary" {
			secondaryLabels = append(secondaryLabels, span.Label)
		} else {
			fmt.Fprintf(f.w, " %s", span.Label)
		}
	}
	fmt.Fprintf(f.w, "\n")

	for _, label := range secondaryLabels {
		fmt.Fprintf(f.w, "   %s | %s\n", gutter, label)
	}
}

// spanWidth returns the number of runes s covers in src.
func spanWidth(src string, s Span) int {
	if s.Start < 0 || s.End > len(src) || s.Start > s.End {
		return s.End - s.Start
	}
	return utf8.RuneCountInString(src[s.Start:s.End])
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "help: %s\n", d.Help)
	}
}

// formatSimple formats a diagnostic without source code (fallback).
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.w, "  --> %s\n", d.Span.String())
	}
	f.printHelp(d)
}
