package service

import "github.com/user/cinebot/internal/model"

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

// SeedMovies 记录存储和本地缓存都不可用时的固定电影列表
func SeedMovies() []model.MovieRecord {
	return []model.MovieRecord{
		{
			ID:          "1",
			Title:       "The Shawshank Redemption",
			Year:        "1994",
			Description: strPtr("Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BNDE3ODcxYzMtY2YzZC00NmNlLWJiNDMtZDViZWM2MzIxZDYwXkEyXkFqcGdeQXVyNjAwNDUxODI@._V1_.jpg",
			Rating:      floatPtr(9.3),
			Genre:       "Drama",
		},
		{
			ID:          "2",
			Title:       "The Godfather",
			Year:        "1972",
			Description: strPtr("The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BM2MyNjYxNmUtYTAwNi00MTYxLWJmNWYtYzZlODY3ZTk3OTFlXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
			Rating:      floatPtr(9.2),
			Genre:       "Crime",
		},
		{
			ID:          "3",
			Title:       "The Dark Knight",
			Year:        "2008",
			Description: strPtr("When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_.jpg",
			Rating:      floatPtr(9.0),
			Genre:       "Action",
		},
		{
			ID:          "4",
			Title:       "Pulp Fiction",
			Year:        "1994",
			Description: strPtr("The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWFjM2ItYzViMjE3YzI5MjljXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
			Rating:      floatPtr(8.9),
			Genre:       "Crime",
		},
		{
			ID:          "5",
			Title:       "Fight Club",
			Year:        "1999",
			Description: strPtr("An insomniac office worker and a devil-may-care soapmaker form an underground fight club that evolves into something much, much more."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BMmEzNTkxYjQtZTc0MC00YTVjLTg5ZTEtZWMwOWVlYzY0NWIwXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
			Rating:      floatPtr(8.8),
			Genre:       "Drama",
		},
		{
			ID:          "6",
			Title:       "Inception",
			Year:        "2010",
			Description: strPtr("A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BMjAxMzY3NjcxNF5BMl5BanBnXkFtZTcwNTI5OTM0Mw@@._V1_.jpg",
			Rating:      floatPtr(8.8),
			Genre:       "Sci-Fi",
		},
		{
			ID:          "7",
			Title:       "The Matrix",
			Year:        "1999",
			Description: strPtr("A computer hacker learns from mysterious rebels about the true nature of his reality and his role in the war against its controllers."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BNzQzOTk3OTAtNDQ0Zi00ZTVkLWI0MTEtMDllZjNkYzNjNTc4L2ltYWdlXkEyXkFqcGdeQXVyNjU0OTQ0OTY@._V1_.jpg",
			Rating:      floatPtr(8.7),
			Genre:       "Sci-Fi",
		},
		{
			ID:          "8",
			Title:       "Interstellar",
			Year:        "2014",
			Description: strPtr("A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival."),
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BZjdkOTU3MDktN2IxOS00OGEyLWFmMjktY2FiMmZkNWIyODZiXkEyXkFqcGdeQXVyMTMxODk2OTU@._V1_.jpg",
			Rating:      floatPtr(8.6),
			Genre:       "Sci-Fi",
		},
	}
}

// ExtraMovies 管理员可追加到目录的口碑片单
func ExtraMovies() []model.MovieRecord {
	return []model.MovieRecord{
		{
			ID:          "movie-3001",
			Title:       "Pulp Fiction",
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWIxMTUtZTIwMWNiYjQzNzM2XkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
			Year:        "1994",
			Description: strPtr("The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption."),
			Rating:      floatPtr(8.9),
			Genre:       "Crime",
		},
		{
			ID:          "movie-3002",
			Title:       "The Shawshank Redemption",
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BMDFkYTc0MGEtZmNhMC00ZDIzLWFmNTEtODM1ZmRlYWMwMWVhXkEyXkFqcGdeQXVyMTMxODk2OTU@._V1_.jpg",
			Year:        "1994",
			Description: strPtr("Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency."),
			Rating:      floatPtr(9.3),
			Genre:       "Drama",
		},
		{
			ID:          "movie-3003",
			Title:       "Schindler's List",
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BNDE4OTMxMTctODBlOC00ZmFmLWI4Y2UtYzQ0OGM0MWExMGU1XkEyXkFqcGdeQXVyMTQxNzMzNDI@._V1_.jpg",
			Year:        "1993",
			Description: strPtr("In German-occupied Poland during World War II, industrialist Oskar Schindler gradually becomes concerned for his Jewish workforce after witnessing their persecution by the Nazis."),
			Rating:      floatPtr(9.0),
			Genre:       "Biography",
		},
		{
			ID:          "movie-3004",
			Title:       "Fight Club",
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BMmEzNTU0YzAtNGNiNC00MjA3LTkxNDctMTViN2RkNzE1MjU1XkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
			Year:        "1999",
			Description: strPtr("An insomniac office worker and a devil-may-care soapmaker form an underground fight club that evolves into something much, much more."),
			Rating:      floatPtr(8.8),
			Genre:       "Drama",
		},
		{
			ID:          "movie-3005",
			Title:       "The Matrix",
			ImageURL:    "https://m.media-amazon.com/images/M/MV5BNzQzOTk3OTAtNDQ0Zi00ZTVkLWI0MTEtMDllZTNhZjNiZTEyXkEyXkFqcGdeQXVyNjU0OTQ0OTY@._V1_.jpg",
			Year:        "1999",
			Description: strPtr("A computer programmer discovers that reality as he knows it is a simulation created by machines, and joins a rebellion to break free."),
			Rating:      floatPtr(8.7),
			Genre:       "Sci-Fi",
		},
	}
}
