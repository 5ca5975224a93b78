package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsable(t *testing.T) {
	assert.False(t, (&ProductRecord{}).Usable())
	assert.True(t, (&ProductRecord{Name: "Blue Crew Tee"}).Usable())
	assert.True(t, (&ProductRecord{ImageURL: "https://img.example.com/tee.jpg"}).Usable())

	price := 24.99
	assert.False(t, (&ProductRecord{Price: &price, Brand: "Acme"}).Usable(),
		"price and brand alone do not make a record usable")
}
