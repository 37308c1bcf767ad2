package jsondefaults

import (
	"strconv"
	"strings"
)

const (
	DefaultObjects = 2000
	DefaultMembers = 10

	firstObjectID = 100000
)

type Member struct {
	ID     int  `json:"id"`
	Active bool `json:"active"`
}

type Object struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// Fixture builds the benchmark input: objects records with IDs counting up
// from 100000, each named by its ID repeated three times and holding members
// active Members numbered from 0.
func Fixture(objects, members int) []Object {
	if objects < 0 {
		objects = 0
	}
	if members < 0 {
		members = 0
	}
	out := make([]Object, objects)
	for i := range out {
		id := firstObjectID + i
		ms := make([]Member, members)
		for j := range ms {
			ms[j] = Member{ID: j, Active: true}
		}
		out[i] = Object{ID: id, Name: strings.Repeat(strconv.Itoa(id), 3), Members: ms}
	}
	return out
}
