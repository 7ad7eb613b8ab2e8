package filesystem

import "gopkg.in/yaml.v3"

// yamlDocument is the top-level shape of a configuration file.
type yamlDocument struct {
	Match yaml.Node `yaml:"match"`
}

// The variant types below are decode targets only. Pointer fields separate
// "absent" from zero values so defaults can be applied afterwards. Unknown
// keys are ignored, which is what lets variant detection fall through.

type yamlExact struct {
	Exact         *string   `yaml:"exact"`
	CaseSensitive *bool     `yaml:"case-sensitive"`
	Trim          *bool     `yaml:"trim"`
	URL           *string   `yaml:"url"`
	Match         yaml.Node `yaml:"match"`
}

type yamlPrefix struct {
	Prefix        *string   `yaml:"prefix"`
	CaseSensitive *bool     `yaml:"case-sensitive"`
	URL           *string   `yaml:"url"`
	Match         yaml.Node `yaml:"match"`
}

type yamlFuzzy struct {
	Fuzzy     *string   `yaml:"fuzzy"`
	Tolerance *int      `yaml:"tolerance"`
	URL       *string   `yaml:"url"`
	Match     yaml.Node `yaml:"match"`
}

type yamlRegex struct {
	Regex         *string   `yaml:"regex"`
	CaseSensitive *bool     `yaml:"case-sensitive"`
	MatchWith     *string   `yaml:"match-with"`
	URL           *string   `yaml:"url"`
	Match         yaml.Node `yaml:"match"`
}
