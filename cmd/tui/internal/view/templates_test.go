package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/factura/internal/templates"
)

func TestTemplatesTitle(t *testing.T) {
	total := len(templates.List())

	assert.Equal(t, fmt.Sprintf("Templates (default 2 of %d)", total), templatesTitle("modern"))
	assert.Equal(t, fmt.Sprintf("Templates (default 1 of %d)", total), templatesTitle("gone"))
}
