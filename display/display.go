// Package display writes command results for humans or scripts.
package display

import (
	"encoding/json"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
)

// Formats lists the values accepted by Write.
var Formats = []string{"toml", "json", "yaml"}

// ShouldOutputJSON reports whether cmd should print JSON: an explicit --json
// flag wins, otherwise JSON logs imply JSON output.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd != nil && cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}
	return logger.JSONOutput
}

// MarshalJSON marshals v with indentation and a trailing newline.
func MarshalJSON(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// OutputJSON writes v to w as indented JSON.
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = w.Write(data)
	return err
}

// Write marshals v to w as toml, json or yaml.
func Write(w io.Writer, format string, v interface{}) error {
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = MarshalJSON(v)
	case "yaml":
		data, err = yaml.Marshal(v)
	case "toml":
		data, err = toml.Marshal(v)
	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", format)
	}
	_, err = w.Write(data)
	return err
}
