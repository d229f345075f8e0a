package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
