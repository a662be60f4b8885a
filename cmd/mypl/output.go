package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/Azure/mypl/internal/analysis"
)

// diagnostic renders the first error of a result as file:line:col: Component error: message.
func diagnostic(res *analysis.Result) string {
	e := res.Err
	return fmt.Sprintf("%s:%d:%d: %s error: %s", res.Source, e.Line, e.Column, e.Component, e.Message)
}

// encode writes v as json or yaml.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
