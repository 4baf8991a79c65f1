package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSchemaVersionAccepts(t *testing.T) {
	assert.NoError(t, checkSchemaVersion())
}

func TestExitErrorWrapsUnderlyingError(t *testing.T) {
	base := errors.New("boom")
	e := exitError{code: exitBadConfig, err: base}

	assert.Equal(t, "boom", e.Error())
	assert.ErrorIs(t, e, base)
	assert.Equal(t, exitBadConfig, e.code)
}
