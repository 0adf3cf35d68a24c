package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHouseholdCode(t *testing.T) {
	assert.Equal(t, "123456789012", NormalizeHouseholdCode(" 1234-5678-9012 "))
	assert.Equal(t, "123456789012", NormalizeHouseholdCode("123456789012"))
}

func TestContactAddress(t *testing.T) {
	assert.Equal(t, "jane.doe@gmail.com", ContactAddress("Jane.Doe", "gmail.com"))
	assert.Equal(t, "jane.doe@gmail.com", ContactAddress("jane.doe", "@gmail.com"))
}
