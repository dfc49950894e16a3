package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemoDBPath_DefaultsWhenEnvUnset(t *testing.T) {
	os.Unsetenv("ORCHESTRATORD_DB")
	assert.Equal(t, "orchestratord.sqlite", demoDBPath())
}

func TestDemoDBPath_HonorsEnvOverride(t *testing.T) {
	os.Setenv("ORCHESTRATORD_DB", "/tmp/custom.sqlite")
	defer os.Unsetenv("ORCHESTRATORD_DB")
	assert.Equal(t, "/tmp/custom.sqlite", demoDBPath())
}

func TestDemoCorpus_HasNonEmptySourcedChunks(t *testing.T) {
	corpus := demoCorpus()
	assert.NotEmpty(t, corpus)
	for _, c := range corpus {
		assert.NotEmpty(t, c.Content)
		assert.NotEmpty(t, c.Source)
	}
}
