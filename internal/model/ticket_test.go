package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatBasedTransport(t *testing.T) {
	assert.True(t, SeatBasedTransport("bus"))
	assert.True(t, SeatBasedTransport("train"))
	assert.False(t, SeatBasedTransport("plane"))
	assert.False(t, SeatBasedTransport(""))
}

func TestTicketPatch_Empty(t *testing.T) {
	assert.True(t, TicketPatch{}.Empty())

	title := "new"
	assert.False(t, TicketPatch{Title: &title}.Empty())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleVendor))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("root"))
}
