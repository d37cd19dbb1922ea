// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Bookshelf recommends books that readers rated similarly to a given title.

It reads the Book-Crossing books and ratings CSV files, keeps active users
and frequently rated books, builds a book-by-user rating matrix and answers
cosine nearest-neighbour queries over it.

# Query Mode

	bookshelf -title "Jewel" -k 5

prints

	Recommendations for: Jewel

	1. Some Title (Score: 0.987)
	2. Another Title (Score: 0.951)

and exits non-zero if the data cannot be prepared or the title is unknown.

# Server Mode

	bookshelf -serve

runs the HTTP API under the supervisor tree until SIGINT or SIGTERM. The
server starts immediately; /api/v1/health/ready answers 503 until the index
build finishes. server.enabled in the configuration has the same effect as
-serve.

# Configuration

Settings come from defaults, then a YAML file (-config, CONFIG_PATH,
./config.yaml or /etc/bookshelf/config.yaml), then environment variables:

	BOOKS_PATH=data/BX-Books.csv
	RATINGS_PATH=data/BX-Book-Ratings.csv
	MIN_BOOK_RATINGS=100
	MIN_USER_RATINGS=10
	HTTP_PORT=8585
	LOG_LEVEL=info
*/
package main
