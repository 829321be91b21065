// Package setupgate blocks the API until first-run setup has completed.
//
// A fresh install has no accounts, so ordinary authentication cannot
// protect anything yet. The gate closes the whole surface except the
// handful of endpoints needed to observe and perform setup: the liveness
// ping, the setup status and completion endpoints, the machine token
// exchange, and the rendered API docs. Refused requests get 403 with
// status SETUP_REQUIRED and the path that was asked for.
//
// The gate consults the stored flag on every request, so completion takes
// effect immediately without a restart.
package setupgate
