// Package chainplan loads the line-delimited JSON chain-plan format: one
// object per line, each an object_type of demod_chain or report.
package chainplan

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-version"
)

// SupportedVersions is the plan_version constraint this build accepts,
// gating feature availability the same way a negotiated protocol version
// would.
const SupportedVersions = ">= 1.0, < 2.0"

// ModemSpec configures a chain's modem stage.
type ModemSpec struct {
	Type    string                 `json:"type"`
	Config  string                 `json:"config"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// SlicerSpec configures a chain's symbol slicer stage.
type SlicerSpec struct {
	Type    string                 `json:"type"`
	Config  string                 `json:"config,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// StreamSpec optionally configures a descrambler stage.
type StreamSpec struct {
	Type    string                 `json:"type"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// CodecSpec configures a chain's framer/codec stage.
type CodecSpec struct {
	Type    string                 `json:"type"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// DemodChain is a demod_chain plan record.
type DemodChain struct {
	ObjectType string      `json:"object_type"`
	ObjectName string      `json:"object_name"`
	PlanVersion string     `json:"plan_version,omitempty"`
	Modem      ModemSpec   `json:"modem"`
	Slicer     SlicerSpec  `json:"slicer"`
	Stream     *StreamSpec `json:"stream,omitempty"`
	Codec      CodecSpec   `json:"codec"`
}

// Report is a report plan record.
type Report struct {
	ObjectType string `json:"object_type"`
	Style      string `json:"style"` // "raw" or "decoded_headers"
}

// Plan is the fully parsed chain plan: every demod_chain and report record
// in file order.
type Plan struct {
	Chains  []DemodChain
	Reports []Report
}

// record is the minimal shape used to dispatch on object_type before
// unmarshaling into the concrete record type.
type record struct {
	ObjectType  string `json:"object_type"`
	PlanVersion string `json:"plan_version,omitempty"`
}

// Load reads a line-delimited JSON chain plan from filename, validating
// plan_version against SupportedVersions wherever the field is present.
func Load(filename string) (*Plan, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chain plan: %w", err)
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Plan, error) {
	constraints, err := version.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, fmt.Errorf("internal: bad supported-version constraint: %w", err)
	}

	var plan Plan
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("chain plan line %d: %w", lineNo, err)
		}
		if rec.PlanVersion != "" {
			v, err := version.NewVersion(rec.PlanVersion)
			if err != nil {
				return nil, fmt.Errorf("chain plan line %d: bad plan_version %q: %w", lineNo, rec.PlanVersion, err)
			}
			if !constraints.Check(v) {
				return nil, fmt.Errorf("chain plan line %d: plan_version %s does not satisfy %s", lineNo, rec.PlanVersion, SupportedVersions)
			}
		}

		switch rec.ObjectType {
		case "demod_chain":
			var c DemodChain
			if err := json.Unmarshal(line, &c); err != nil {
				return nil, fmt.Errorf("chain plan line %d: %w", lineNo, err)
			}
			plan.Chains = append(plan.Chains, c)
		case "report":
			var rp Report
			if err := json.Unmarshal(line, &rp); err != nil {
				return nil, fmt.Errorf("chain plan line %d: %w", lineNo, err)
			}
			plan.Reports = append(plan.Reports, rp)
		default:
			return nil, fmt.Errorf("chain plan line %d: unrecognized object_type %q", lineNo, rec.ObjectType)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chain plan: %w", err)
	}
	return &plan, nil
}
