package db_test

import (
	"testing"

	"pos/internal/infra/db"

	"github.com/stretchr/testify/assert"
)

func TestConnect_InvalidDSN(t *testing.T) {
	_, err := db.Connect("postgres://%zz", false)
	assert.Error(t, err)
}
