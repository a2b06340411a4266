package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, dto.PageRequest{Limit: 20, Offset: 0}, dto.PageRequest{Limit: 0, Offset: -5}.Normalize())
	assert.Equal(t, dto.PageRequest{Limit: 100, Offset: 40}, dto.PageRequest{Limit: 500, Offset: 40}.Normalize())
}

func TestNewPageResponse_HasMoreConPaginaLlena(t *testing.T) {
	assert.True(t, dto.NewPageResponse(20, 0, 20).HasMore)
	assert.False(t, dto.NewPageResponse(20, 20, 7).HasMore)
}
