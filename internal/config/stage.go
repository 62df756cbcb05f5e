package config

// StageConfig holds the generation settings of one model stage.
type StageConfig struct {
	// Model is the backend model name. Empty selects the backend default.
	Model string `yaml:"model,omitempty"`

	// Temperature is the sampling temperature, between 0 and 2.
	Temperature float32 `yaml:"temperature,omitempty"`

	// MaxTokens caps the length of the answer.
	MaxTokens int32 `yaml:"max_tokens,omitempty"`
}

// DefaultAnalyzerStage returns the analyzer settings.
func DefaultAnalyzerStage() StageConfig {
	return StageConfig{
		Temperature: DefaultAnalyzerTemperature,
		MaxTokens:   DefaultAnalyzerMaxTokens,
	}
}

// DefaultValidatorStage returns the validator settings. The lower temperature
// keeps the JSON answer stable.
func DefaultValidatorStage() StageConfig {
	return StageConfig{
		Temperature: DefaultValidatorTemperature,
		MaxTokens:   DefaultValidatorMaxTokens,
	}
}

// merge overrides s with the non-zero fields of other.
func (s StageConfig) merge(other StageConfig) StageConfig {
	if other.Model != "" {
		s.Model = other.Model
	}
	if other.Temperature != 0 {
		s.Temperature = other.Temperature
	}
	if other.MaxTokens != 0 {
		s.MaxTokens = other.MaxTokens
	}
	return s
}

func (s StageConfig) validate() error {
	if s.Temperature < 0 || s.Temperature > 2 {
		return ErrInvalidTemperature
	}
	if s.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}
	return nil
}
