package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"btt/internal/domain"
)

// YAML scenario layout: either a single case document or a "cases:"
// list. Steps give a natural-language "do" line or explicit command
// fields (action plus url/target/text/scope).
type yamlScenario struct {
	Cases []yamlCase `yaml:"cases"`
}

type yamlCase struct {
	ID       string     `yaml:"id"`
	Title    string     `yaml:"title"`
	Priority string     `yaml:"priority"`
	Steps    []yamlStep `yaml:"steps"`
}

type yamlStep struct {
	Do          string `yaml:"do"`
	Action      string `yaml:"action"`
	URL         string `yaml:"url"`
	Target      string `yaml:"target"`
	Text        string `yaml:"text"`
	Scope       string `yaml:"scope"`
	Expect      string `yaml:"expect"`
	Independent bool   `yaml:"independent"`
}

func (l *Loader) parseYAML(path string, data []byte) ([]*domain.TestCase, error) {
	var scenario yamlScenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, &domain.MalformedSourceError{
			Source: path,
			Reason: fmt.Sprintf("invalid yaml: %v", err),
		}
	}

	if len(scenario.Cases) == 0 {
		var single yamlCase
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, &domain.MalformedSourceError{
				Source: path,
				Reason: fmt.Sprintf("invalid yaml: %v", err),
			}
		}
		scenario.Cases = []yamlCase{single}
	}

	var cases []*domain.TestCase
	for _, yc := range scenario.Cases {
		steps := make([]rawStep, 0, len(yc.Steps))
		for i, ys := range yc.Steps {
			raw := rawStep{
				description: ys.Do,
				expected:    ys.Expect,
				independent: ys.Independent,
			}
			if ys.Do == "" && ys.Action != "" {
				cmd, err := explicitCommand(ys)
				if err != nil {
					return nil, &domain.MalformedSourceError{
						Source: path,
						Reason: fmt.Sprintf("case %s step %d: %v", yc.ID, i+1, err),
					}
				}
				raw.command = cmd
				raw.parsed = true
				raw.description = cmd.String()
			}
			steps = append(steps, raw)
		}
		tc, err := buildCase(path, yc.ID, yc.Title, yc.Priority, steps)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}

	return cases, nil
}

// explicitCommand builds a driver command from structured step fields
func explicitCommand(ys yamlStep) (domain.Command, error) {
	switch ys.Action {
	case "navigate":
		if ys.URL == "" {
			return domain.Command{}, fmt.Errorf("navigate step needs a url")
		}
		return domain.Command{Action: domain.ActionNavigate, URL: ys.URL}, nil
	case "click":
		if ys.Target == "" {
			return domain.Command{}, fmt.Errorf("click step needs a target")
		}
		return domain.Command{Action: domain.ActionClick, Target: ys.Target}, nil
	case "type":
		if ys.Target == "" {
			return domain.Command{}, fmt.Errorf("type step needs a target")
		}
		return domain.Command{Action: domain.ActionType, Target: ys.Target, Text: ys.Text}, nil
	case "discover":
		return domain.Command{Action: domain.ActionDiscover, Scope: ys.Scope}, nil
	}
	return domain.Command{}, fmt.Errorf("unknown action %q", ys.Action)
}
