package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/utils"
)

type BoardGame struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Year              int       `json:"year"`
	MinPlayers        int       `json:"minPlayers"`
	MaxPlayers        int       `json:"maxPlayers"`
	PlayTime          int       `json:"playTime"`
	MinAge            int       `json:"minAge"`
	RatingAverage     float64   `json:"ratingAverage"`
	UsersRated        int       `json:"usersRated"`
	OwnedUsers        int       `json:"ownedUsers"`
	BGGRank           int       `json:"bggRank"`
	ComplexityAverage float64   `json:"complexityAverage"`
	CreatedDate       time.Time `json:"createdDate"`
	LastModifiedDate  time.Time `json:"lastModifiedDate"`
}

// BoardGameListItem is the projection returned by listings.
type BoardGameListItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	MinPlayers int    `json:"minPlayers"`
	MaxPlayers int    `json:"maxPlayers"`
	PlayTime   int    `json:"playTime"`
	OwnedUsers int    `json:"ownedUsers"`
	MinAge     int    `json:"minAge"`
}

func (b BoardGame) ToListItem() BoardGameListItem {
	return BoardGameListItem{
		ID:         b.ID,
		Name:       b.Name,
		Year:       b.Year,
		MinPlayers: b.MinPlayers,
		MaxPlayers: b.MaxPlayers,
		PlayTime:   b.PlayTime,
		OwnedUsers: b.OwnedUsers,
		MinAge:     b.MinAge,
	}
}

// BoardGamePatch is the update payload. Empty strings and non-positive numbers mean
// "leave as is", so a field cannot be set to zero through it.
type BoardGamePatch struct {
	ID         int64  `json:"id" binding:"required,gt=0"`
	Name       string `json:"name" binding:"max=200"`
	Year       *int   `json:"year"`
	MinPlayers *int   `json:"minPlayers"`
	MaxPlayers *int   `json:"maxPlayers"`
	PlayTime   *int   `json:"playTime"`
	MinAge     *int   `json:"minAge"`
}

func (p BoardGamePatch) RecordID() int64 { return p.ID }

// Apply copies the present fields onto b and stamps LastModifiedDate.
func (p BoardGamePatch) Apply(b *BoardGame, now time.Time) {
	if name := utils.NormalizeSpace(p.Name); name != "" {
		b.Name = name
	}
	setPositive(&b.Year, p.Year)
	setPositive(&b.MinPlayers, p.MinPlayers)
	setPositive(&b.MaxPlayers, p.MaxPlayers)
	setPositive(&b.PlayTime, p.PlayTime)
	setPositive(&b.MinAge, p.MinAge)
	b.LastModifiedDate = now
}

// Values renders the payload as query values for the self link.
func (p BoardGamePatch) Values() url.Values {
	v := url.Values{}
	v.Set("id", strconv.FormatInt(p.ID, 10))
	if p.Name != "" {
		v.Set("name", p.Name)
	}
	addInt(v, "year", p.Year)
	addInt(v, "minPlayers", p.MinPlayers)
	addInt(v, "maxPlayers", p.MaxPlayers)
	addInt(v, "playTime", p.PlayTime)
	addInt(v, "minAge", p.MinAge)
	return v
}

func setPositive(dst *int, src *int) {
	if src != nil && *src > 0 {
		*dst = *src
	}
}

func addInt(v url.Values, key string, n *int) {
	if n != nil {
		v.Set(key, strconv.Itoa(*n))
	}
}

// BoardGameSchema is the sort allow-list for board game listings.
var BoardGameSchema = domain.Schema[BoardGame]{
	Resource:    "BoardGames",
	Table:       "board_games",
	FilterSQL:   "name",
	DefaultSort: "name",
	Columns: []domain.Column[BoardGame]{
		{Name: "id", SQL: "id", Less: func(a, b BoardGame) bool { return a.ID < b.ID }},
		{Name: "name", SQL: "name", Less: func(a, b BoardGame) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }},
		{Name: "year", SQL: "year", Less: func(a, b BoardGame) bool { return a.Year < b.Year }},
		{Name: "minPlayers", SQL: "min_players", Less: func(a, b BoardGame) bool { return a.MinPlayers < b.MinPlayers }},
		{Name: "maxPlayers", SQL: "max_players", Less: func(a, b BoardGame) bool { return a.MaxPlayers < b.MaxPlayers }},
		{Name: "playTime", SQL: "play_time", Less: func(a, b BoardGame) bool { return a.PlayTime < b.PlayTime }},
		{Name: "minAge", SQL: "min_age", Less: func(a, b BoardGame) bool { return a.MinAge < b.MinAge }},
		{Name: "ownedUsers", SQL: "owned_users", Less: func(a, b BoardGame) bool { return a.OwnedUsers < b.OwnedUsers }},
		{Name: "ratingAverage", SQL: "rating_average", Less: func(a, b BoardGame) bool { return a.RatingAverage < b.RatingAverage }},
	},
	FilterValue: func(b BoardGame) string { return b.Name },
	Key:         func(b BoardGame) int64 { return b.ID },
}
