package panel

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadInputs reads a JSON array of panel inputs and validates each one
func LoadInputs(path string, strict bool) ([]Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var inputs []Input
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%s contains no panels", path)
	}

	for i, in := range inputs {
		check := in.Validate
		if strict {
			check = in.Strict
		}
		if err := check(); err != nil {
			return nil, fmt.Errorf("panel %d (%s): %w", i+1, in.Name, err)
		}
	}

	return inputs, nil
}
