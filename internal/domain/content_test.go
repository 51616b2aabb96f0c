package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    GenerationOptions
		wantErr bool
	}{
		{"minimum length", GenerationOptions{Length: 100}, false},
		{"maximum length", GenerationOptions{Length: 500}, false},
		{"mid range with tone", GenerationOptions{Length: 250, Tone: ToneCasual}, false},
		{"no tone is fine", GenerationOptions{Length: 300}, false},
		{"below minimum", GenerationOptions{Length: 99}, true},
		{"far below minimum", GenerationOptions{Length: 50}, true},
		{"above maximum", GenerationOptions{Length: 501}, true},
		{"far above maximum", GenerationOptions{Length: 600}, true},
		{"zero length", GenerationOptions{Length: 0}, true},
		{"unknown tone", GenerationOptions{Length: 200, Tone: "sarcastic"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerationOptions_ValidateAllTones(t *testing.T) {
	for _, tone := range []Tone{ToneProfessional, ToneCasual, ToneEnthusiastic} {
		opts := GenerationOptions{Length: 200, Tone: tone}
		assert.NoError(t, opts.Validate())
	}
}
