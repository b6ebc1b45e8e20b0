package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/utils"
)

type Mechanic struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	CreatedDate      time.Time `json:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate"`
}

type MechanicPatch struct {
	ID   int64  `json:"id" binding:"required,gt=0"`
	Name string `json:"name" binding:"max=200"`
}

func (p MechanicPatch) RecordID() int64 { return p.ID }

func (p MechanicPatch) Apply(m *Mechanic, now time.Time) {
	if name := utils.NormalizeSpace(p.Name); name != "" {
		m.Name = name
	}
	m.LastModifiedDate = now
}

func (p MechanicPatch) Values() url.Values {
	v := url.Values{}
	v.Set("id", strconv.FormatInt(p.ID, 10))
	if p.Name != "" {
		v.Set("name", p.Name)
	}
	return v
}

var MechanicSchema = domain.Schema[Mechanic]{
	Resource:    "Mechanics",
	Table:       "mechanics",
	FilterSQL:   "name",
	DefaultSort: "name",
	Columns: []domain.Column[Mechanic]{
		{Name: "id", SQL: "id", Less: func(a, b Mechanic) bool { return a.ID < b.ID }},
		{Name: "name", SQL: "name", Less: func(a, b Mechanic) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }},
	},
	FilterValue: func(m Mechanic) string { return m.Name },
	Key:         func(m Mechanic) int64 { return m.ID },
}
