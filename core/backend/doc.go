// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package backend realizes the REST backend of the media collection tracker.

The backend is generic: it takes a JSON configuration describing the
tracked collections and creates identical CRUD routes for each of them
over a document store, plus an image upload route and a statistics route.

A collection resource "book" creates the routes

	/api/books         GET, POST
	/api/books/{id}    GET, PUT, DELETE

Every document carries three mandatory string properties - title, genre
and status - validated at the handler boundary; everything else in the
request payload is stored verbatim. The store assigns ids and the backend
assigns createdAt/updatedAt timestamps; createdAt is immutable.

The upload resource accepts a single multipart image and returns it
re-encoded as a base64 data URL; nothing is ever written to disk. The
statistics route aggregates counts, completion and average ratings over
all configured collections.
*/
package backend
