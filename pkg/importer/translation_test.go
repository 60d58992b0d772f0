package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/ptv"
)

func TestSetTranslation(t *testing.T) {
	got := map[string]string{}
	set := func(lang, value string) { got[lang] = value }

	setTranslation(set, ptv.LocalizedText{Language: "fi", Value: "Kirjasto"}, "")
	setTranslation(set, ptv.LocalizedText{Language: "sv", Value: "ignored"}, "Slottsgatan 2")

	assert.Equal(t, "Kirjasto", got["fi"])
	assert.Equal(t, "Slottsgatan 2", got["sv"])
}
