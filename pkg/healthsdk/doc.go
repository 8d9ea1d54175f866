/*
Package healthsdk is the client for the Amani backend API.

# Overview

The package is organized around two types:

  - SDKClient: unauthenticated operations (login, register) and session
    construction
  - Session: authenticated operations against the profile, patient and
    medical-record endpoints

Create an SDKClient, authenticate, then use the Session:

	client := healthsdk.NewSDKClient("https://api.amani.example")

	session, err := client.Login(ctx, "grace@example.com", "password")
	if err != nil {
		// handle
	}

	profile, err := session.GetCurrentUser(ctx)
	records, err := session.ListMedicalRecords(ctx)

A session can also be restored from a persisted token after an app restart:

	session, err := client.NewSessionFromToken(savedToken)

# Error Handling

Every failed operation returns an *APIError carrying a Kind. Callers branch
with the predicate helpers rather than inspecting status codes:

	_, err := session.GetCurrentUser(ctx)
	switch {
	case healthsdk.IsNetworkUnavailable(err):
		// offline: serve cached data, marked stale
	case healthsdk.IsAuthorization(err):
		// revoked or expired session: purge cached data, re-authenticate
	}

The distinction matters: the on-device cache treats an unreachable server as
"serve stale" and a revoked session as "purge everything", so transport
failures and 401/403 responses must never be collapsed into one error.

# Medical Records

MedicalRecord payloads are a tagged union with one variant per record type
(ANC visit, vaccination, doctor note). Payloads are validated when decoded
off the wire; a record with an unknown type or an invalid payload never
reaches the caller.

# Thread Safety

Sessions are safe for concurrent use; token and identity reads are guarded
by a read/write lock.
*/
package healthsdk
