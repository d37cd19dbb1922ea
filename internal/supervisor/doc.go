// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package supervisor runs the long-lived parts of the server under a suture v4
supervisor tree.

	RootSupervisor ("bookshelf")
	├── IndexSupervisor ("index-layer")
	│   └── IndexBuildService
	└── APISupervisor ("api-layer")
	    └── APIService

The index build reads both CSV files, prepares the matrix and fits the
neighbour index once. A successful build removes itself from the tree; a
failed one terminates the whole tree and Serve returns the build error, so
a missing or unreadable data file stops the process. The API runs from the
start and reports not-ready until the build completes; an address it cannot
bind also stops the tree.

Supervisor events go through sutureslog into the process zerolog logger:

	slogger := logging.NewSlogLogger(logging.Logger())
	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddIndexService(services.NewIndexBuildService(rec, books, ratings, logger))
	tree.AddAPIService(services.NewAPIService(addr, server, logger))
	return tree.Serve(ctx)
*/
package supervisor
