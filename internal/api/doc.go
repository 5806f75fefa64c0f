// Aidhub - Donation Matching and Recipient Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aidhub

/*
Package api provides the HTTP surface of Aidhub using the Chi router.

Endpoints:

	GET  /api/recipients?type=<category>&location=<text>   ranked open needs for a donor
	POST /api/donate                                       match a donation to an open need
	POST /api/add_recipient                                register an open need
	GET  /api/history                                      fulfilled records and per-category stats
	GET  /api/summary_stats                                donation totals
	GET  /api/trending                                     most requested categories
	GET  /api/health                                       liveness and database reachability
	GET  /metrics                                          Prometheus exposition

Success bodies are flat JSON objects (see models.RecipientsResponse and
friends). Error bodies are models.APIError:

	{"error": "Missing required fields: donor_name", "code": "MISSING_FIELDS",
	 "details": {"fields": ["donor_name"]}}

Status codes follow the models.AppError kind: validation and location
failures are 400, missing recipients and empty result sets are 404,
everything else is 500.

Writes (add_recipient, donate) enqueue model retraining after the store
commits. The response never waits for or depends on retraining.

Middleware order (outermost first): request ID, real IP, panic recovery,
CORS, then for /api: rate limiting and Prometheus metrics.
*/
package api
