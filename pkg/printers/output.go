package printers

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"tableflip.dev/critterdex/pkg/collection"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
)

// Formats accepted by Structured.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Structured writes v as indented JSON or as YAML.
func Structured(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown output format %q, use %q or %q", format, FormatJSON, FormatYAML)
}

// RowDoc is the structured form of a listing row.
type RowDoc struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	Caught        bool   `json:"caught"`
	Donated       bool   `json:"donated"`
	Hours         string `json:"hours"`
	HereThisMonth bool   `json:"hereThisMonth"`
	LeavingSoon   bool   `json:"leavingSoon"`
	AvailableNow  bool   `json:"availableNow"`
}

// ViewDoc is the structured form of a collection listing.
type ViewDoc struct {
	Kind      creature.Kind              `json:"kind"`
	Region    creature.Region            `json:"region"`
	Reference string                     `json:"reference"`
	Settings  profile.CollectionSettings `json:"settings"`
	Total     int                        `json:"total"`
	Caught    int                        `json:"caught"`
	Donated   int                        `json:"donated"`
	Rows      []RowDoc                   `json:"rows"`
}

// NewViewDoc converts a built view for structured output.
func NewViewDoc(v collection.View) ViewDoc {
	doc := ViewDoc{
		Kind:      v.Kind,
		Region:    v.Region,
		Reference: v.Reference.Format("2006-01-02T15:04:05Z07:00"),
		Settings:  v.Settings,
		Total:     v.Total,
		Caught:    v.Caught,
		Donated:   v.Donated,
		Rows:      make([]RowDoc, 0, len(v.Rows)),
	}
	for _, r := range v.Rows {
		doc.Rows = append(doc.Rows, RowDoc{
			Number:        r.Creature.Number,
			Name:          r.Creature.Name,
			Caught:        r.Entry.Caught,
			Donated:       r.Entry.Donated,
			Hours:         r.Window,
			HereThisMonth: r.HereThisMonth,
			LeavingSoon:   r.LeavingSoon,
			AvailableNow:  r.AvailableNow,
		})
	}
	return doc
}
