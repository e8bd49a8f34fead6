// Package output renders Solr results for the command line.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wesleyorama2/solrprobe/solr"
)

// Formatter formats query results in text form.
type Formatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatQuery formats the header line for a call about to be made.
func (f *Formatter) FormatQuery(method, baseURL, path, query string) string {
	line := fmt.Sprintf("▶ %s %s%s", f.colors.Method.Sprint(method), f.colors.URL.Sprint(baseURL), path)
	if query != "" {
		line += fmt.Sprintf(" q=%s", query)
	}
	return line + "\n"
}

// FormatResponse formats a successful Solr response.
func (f *Formatter) FormatResponse(resp *solr.Response) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("◀ %s numFound=%s QTime=%dms (%dms)\n",
		f.colors.StatusOK.Sprint(resp.Status),
		f.colors.Count.Sprint(resp.NumFound()),
		resp.QTime(),
		resp.Timing.TotalTime.Milliseconds()))

	if !f.Verbose {
		return buf.String()
	}

	buf.WriteString("  Timing:\n")
	buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", resp.Timing.DNSLookupTime.Milliseconds()))
	buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", resp.Timing.TCPConnectTime.Milliseconds()))
	buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", resp.Timing.TLSHandshakeTime.Milliseconds()))
	buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", resp.Timing.TimeToFirstByte.Milliseconds()))
	buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", resp.Timing.ContentTransferTime.Milliseconds()))

	docs := resp.Docs()
	if len(docs) > 0 {
		buf.WriteString(fmt.Sprintf("  %s:\n", f.colors.Field.Sprint("Docs")))
		for _, doc := range docs {
			buf.WriteString("  ")
			buf.WriteString(formatJSONString(doc))
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

// FormatError formats a failed call.
func (f *Formatter) FormatError(err error) string {
	return fmt.Sprintf("◀ %s %v\n", f.colors.StatusError.Sprint("ERROR"), err)
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
