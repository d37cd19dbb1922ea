// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package services provides suture.Service wrappers for the server's
long-running components.

  - IndexBuildService: prepares the CSV data and builds the neighbour index
    once. Success removes it from the tree; failure terminates the tree
  - APIService: binds the API listener and runs *http.Server on it. A bind
    failure terminates the tree; cancellation shuts the server down
    gracefully

Each wrapper implements fmt.Stringer so supervisor events name it.
*/
package services
