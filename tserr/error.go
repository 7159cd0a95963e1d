package tserr

import (
	"fmt"
	"log/slog"
	"strings"
)

// Errors accumulates Error values. The nil *Errors is empty and ready to use
type Errors struct {
	errs []Error
}

func (r *Errors) With(err ...Error) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []Error {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

// Error makes *Errors usable as an error, one line per accumulated Error
func (r *Errors) Error() string {
	sb := &strings.Builder{}
	for i, err := range r.Errors() {
		if i != 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.Pos().String())
		sb.WriteString(": ")
		sb.WriteString(FormatWithCode(err))
	}
	return sb.String()
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
				slog.Attr{
					Key:   "pos",
					Value: slog.StringValue(v.Pos().String()),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
