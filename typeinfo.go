package main

import (
	"encoding/json"
	"io"

	"github.com/ztrue/tracerr"

	"github.com/brodycritchlow/serpentine/checker"
)

type typeReport struct {
	OK        bool              `json:"ok"`
	Error     string            `json:"error,omitempty"`
	Variables map[string]string `json:"variables"`
}

func newTypeReport(c *checker.Checker, err error) typeReport {
	t := typeReport{
		OK:        err == nil,
		Variables: make(map[string]string),
	}
	if err != nil {
		t.Error = err.Error()
	}
	for name, typ := range c.Variables() {
		t.Variables[name] = typ.String()
	}
	return t
}

func writeTypeReport(w io.Writer, t typeReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return tracerr.Wrap(enc.Encode(t))
}
