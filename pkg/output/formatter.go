package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Format names an output format selectable with the --output flag.
type Format string

const (
	JsonFormat Format = "json"
	NoneFormat Format = "none"
)

// Formatter writes a command's structured result in a Format.
type Formatter interface {
	Kind() Format
	Format(obj interface{}, writer io.Writer) error
}

func NewFormatter(format string) (Formatter, error) {
	switch format {
	case string(JsonFormat):
		return &JsonFormatter{}, nil
	case string(NoneFormat), "":
		return &NoneFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}
}

type JsonFormatter struct {
}

func (f *JsonFormatter) Kind() Format {
	return JsonFormat
}

func (f *JsonFormatter) Format(obj interface{}, writer io.Writer) error {
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}

	if _, err := writer.Write(b); err != nil {
		return err
	}

	_, err = writer.Write([]byte("\n"))
	return err
}

var _ Formatter = (*JsonFormatter)(nil)

type NoneFormatter struct {
}

func (f *NoneFormatter) Kind() Format {
	return NoneFormat
}

func (f *NoneFormatter) Format(obj interface{}, writer io.Writer) error {
	return nil
}

var _ Formatter = (*NoneFormatter)(nil)
