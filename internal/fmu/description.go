package fmu

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/san-kum/fmusim/internal/fmi"
)

// Description is the machine-readable model description: identification,
// buffer sizes and the ordered variable list used for output headers.
type Description struct {
	FMIVersion          string
	ModelName           string
	ModelIdentifier     string
	GUID                string
	StateCount          int
	EventIndicatorCount int
	Variables           []Variable
}

// Variable is one scalar variable in description order.
type Variable struct {
	Name           string
	ValueReference fmi.ValueReference
	Kind           string // Real, Integer, Boolean, String or Enumeration
}

// RealVariables returns the Real-typed variables in description order. Output
// rows carry exactly these, so headers and values stay parallel.
func (d *Description) RealVariables() []Variable {
	var out []Variable
	for _, v := range d.Variables {
		if v.Kind == "Real" {
			out = append(out, v)
		}
	}
	return out
}

type xmlScalarVariable struct {
	Name           string    `xml:"name,attr"`
	ValueReference uint32    `xml:"valueReference,attr"`
	Real           *struct{} `xml:"Real"`
	Integer        *struct{} `xml:"Integer"`
	Boolean        *struct{} `xml:"Boolean"`
	String         *struct{} `xml:"String"`
	Enumeration    *struct{} `xml:"Enumeration"`
}

type xmlModelDescription struct {
	XMLName                  xml.Name `xml:"fmiModelDescription"`
	FMIVersion               string   `xml:"fmiVersion,attr"`
	ModelName                string   `xml:"modelName,attr"`
	ModelIdentifier          string   `xml:"modelIdentifier,attr"`
	GUID                     string   `xml:"guid,attr"`
	NumberOfContinuousStates int      `xml:"numberOfContinuousStates,attr"`
	NumberOfEventIndicators  int      `xml:"numberOfEventIndicators,attr"`
	ModelVariables           struct {
		ScalarVariables []xmlScalarVariable `xml:"ScalarVariable"`
	} `xml:"ModelVariables"`
}

// ParseDescription parses an FMI 1.0 modelDescription.xml document.
func ParseDescription(data []byte) (*Description, error) {
	var doc xmlModelDescription
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fmu: parse model description: %w", err)
	}
	if doc.FMIVersion != "1.0" {
		return nil, fmt.Errorf("fmu: unsupported fmiVersion %q", doc.FMIVersion)
	}
	if doc.ModelIdentifier == "" {
		return nil, fmt.Errorf("fmu: model description has no modelIdentifier")
	}
	if doc.GUID == "" {
		return nil, fmt.Errorf("fmu: model description has no guid")
	}
	if doc.NumberOfContinuousStates < 0 || doc.NumberOfEventIndicators < 0 {
		return nil, fmt.Errorf("fmu: negative state or indicator count")
	}

	d := &Description{
		FMIVersion:          doc.FMIVersion,
		ModelName:           doc.ModelName,
		ModelIdentifier:     doc.ModelIdentifier,
		GUID:                doc.GUID,
		StateCount:          doc.NumberOfContinuousStates,
		EventIndicatorCount: doc.NumberOfEventIndicators,
	}
	for _, sv := range doc.ModelVariables.ScalarVariables {
		v := Variable{
			Name:           sv.Name,
			ValueReference: fmi.ValueReference(sv.ValueReference),
		}
		switch {
		case sv.Real != nil:
			v.Kind = "Real"
		case sv.Integer != nil:
			v.Kind = "Integer"
		case sv.Boolean != nil:
			v.Kind = "Boolean"
		case sv.String != nil:
			v.Kind = "String"
		case sv.Enumeration != nil:
			v.Kind = "Enumeration"
		}
		d.Variables = append(d.Variables, v)
	}
	return d, nil
}

// LoadDescription reads and parses the description file at path.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDescription(data)
}
