package report

import (
	"gopkg.in/yaml.v3"
)

func ToYaml(summary *Summary) ([]byte, error) {
	return yaml.Marshal(summary)
}
