package repositories

import (
	"time"

	"boardgamelist/internal/domain/models"
)

// SampleBoardGames is the catalog loaded when DATA_SOURCE=memory.
func SampleBoardGames(now time.Time) []models.BoardGame {
	rows := []models.BoardGame{
		{ID: 1, Name: "Gloomhaven", Year: 2017, MinPlayers: 1, MaxPlayers: 4, PlayTime: 120, MinAge: 14, RatingAverage: 8.79, UsersRated: 42055, OwnedUsers: 68323, BGGRank: 1, ComplexityAverage: 3.86},
		{ID: 2, Name: "Pandemic Legacy: Season 1", Year: 2015, MinPlayers: 2, MaxPlayers: 4, PlayTime: 60, MinAge: 13, RatingAverage: 8.61, UsersRated: 41643, OwnedUsers: 65294, BGGRank: 2, ComplexityAverage: 2.84},
		{ID: 3, Name: "Brass: Birmingham", Year: 2018, MinPlayers: 2, MaxPlayers: 4, PlayTime: 120, MinAge: 14, RatingAverage: 8.66, UsersRated: 19217, OwnedUsers: 28785, BGGRank: 3, ComplexityAverage: 3.91},
		{ID: 4, Name: "Terraforming Mars", Year: 2016, MinPlayers: 1, MaxPlayers: 5, PlayTime: 120, MinAge: 12, RatingAverage: 8.43, UsersRated: 64864, OwnedUsers: 87099, BGGRank: 4, ComplexityAverage: 3.24},
		{ID: 5, Name: "Twilight Imperium: Fourth Edition", Year: 2017, MinPlayers: 3, MaxPlayers: 6, PlayTime: 480, MinAge: 14, RatingAverage: 8.70, UsersRated: 13468, OwnedUsers: 16831, BGGRank: 5, ComplexityAverage: 4.22},
		{ID: 6, Name: "Gaia Project", Year: 2017, MinPlayers: 1, MaxPlayers: 4, PlayTime: 150, MinAge: 12, RatingAverage: 8.49, UsersRated: 16236, OwnedUsers: 23240, BGGRank: 8, ComplexityAverage: 4.38},
		{ID: 7, Name: "Catan", Year: 1995, MinPlayers: 3, MaxPlayers: 4, PlayTime: 120, MinAge: 10, RatingAverage: 7.14, UsersRated: 108975, OwnedUsers: 168364, BGGRank: 429, ComplexityAverage: 2.32},
		{ID: 8, Name: "Go", Year: -2200, MinPlayers: 2, MaxPlayers: 2, PlayTime: 180, MinAge: 8, RatingAverage: 7.64, UsersRated: 16299, OwnedUsers: 24418, BGGRank: 212, ComplexityAverage: 3.93},
	}
	for i := range rows {
		rows[i].CreatedDate = now
		rows[i].LastModifiedDate = now
	}
	return rows
}

// SampleMechanics pairs with SampleBoardGames.
func SampleMechanics(now time.Time) []models.Mechanic {
	names := []string{"Action Points", "Cooperative Game", "Deck Building", "Dice Rolling", "Hand Management", "Tile Placement", "Worker Placement", "Area Majority / Influence"}
	rows := make([]models.Mechanic, 0, len(names))
	for i, n := range names {
		rows = append(rows, models.Mechanic{ID: int64(i + 1), Name: n, CreatedDate: now, LastModifiedDate: now})
	}
	return rows
}
