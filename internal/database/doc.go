// Package database provides the local data access layer.
//
// BookNet does not own its catalog: authors, books, genres, tags and users
// live in the REST backend. The local SQLite file only holds what the web
// tier produces itself:
//
//	database/
//	├── database.go   # Connection setup and migrations
//	├── audit/        # Admin action log
//	└── ratings/      # Reader ratings of catalog books
//
// The sessions table is created by the auth package on the same
// connection.
//
// Each sub-package provides a Repository built from the shared *gorm.DB:
//
//	db, err := database.NewDatabase("./booknet.db")
//	ratingsRepo := ratings.NewRepository(db.DB)
//	summary, err := ratingsRepo.Summary(ctx, "don-quijote")
package database
