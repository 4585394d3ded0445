// Package api handles incoming HTTP requests, request validation and
// response formatting for the planner. It translates HTTP concerns into
// calls on service.PlannerService and maps domain errors to status codes.
//
// Destructive operations are executed as soon as they are requested;
// asking the user for confirmation is the client's job.
package api
