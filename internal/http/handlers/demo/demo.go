// Package demo contains all HTTP handlers related to the Demo resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a store.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned.
//
// THE THREE PATCH PROTOCOLS:
// ──────────────────────────
// PATCH /api/demos/{id} accepts three different patch document formats,
// told apart by the request's Content-Type — the same way HTTP content
// negotiation distinguishes them everywhere else:
//
//	application/json             → typed age patch   (PatchAge)
//	application/merge-patch+json → RFC 7386 merge    (PatchMerge)
//	application/json-patch+json  → RFC 6902 op array (PatchJSON)
//
// The router can only match on method and path, so Patch() is a tiny
// dispatcher that picks one of the three real handlers per request.
// Whatever the protocol, the id in the path names the target record and
// survives the patch unchanged — a patch mutates a demo, it never
// renames or creates one.
package demo

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"demos-api/internal/jsonmerge"
	"demos-api/internal/storage"
	"demos-api/internal/types"
	"demos-api/internal/utils/response"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-playground/validator/v10"
)

// Media types the PATCH route understands.
const (
	mediaTypeJSON       = "application/json"
	mediaTypeMergePatch = "application/merge-patch+json"
	mediaTypeJSONPatch  = "application/json-patch+json"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/demos
// Creates a new demo from the JSON request body.
//
// Request body (JSON):
//
//	{ "firstName": "John", "lastName": "Doe", "age": 20 }
//
// Success response (201 Created, Location: /api/demos/1):
//
//	{ "id": 1, "firstName": "John", "lastName": "Doe", "age": 20 }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — store error
//
// A body that carries a non-zero id keeps it (the store only assigns
// ids to records that arrive without one).
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	// This is the factory function. It runs ONCE when the route is registered.
	// It captures `storage` in the closure below.

	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a demo")

		// ── Step 1: Decode JSON body into a Demo struct ───────────────
		var demo types.Demo

		err := json.NewDecoder(r.Body).Decode(&demo)

		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}

		if err != nil {
			// Any other decode error: malformed JSON, wrong types, etc.
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Validate the decoded struct ───────────────────────
		// validator.New().Struct(v) checks all validate:"..." tags on v.
		if err := validator.New().Struct(demo); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 3: Persist via the Storage interface ─────────────────
		result, err := storage.SaveDemo(demo)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("demo created", slog.Int64("id", result.ID))

		// ── Step 4: Return 201 Created with a Location reference ──────
		// The Location header points at the canonical URL of the record
		// that was just created, derived from the request path so the
		// handler stays agnostic of its mount prefix.
		w.Header().Set("Location",
			r.URL.Path+"/"+strconv.FormatInt(result.ID, 10))
		response.WriteJSON(w, http.StatusCreated, result)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/demos
// Returns a JSON array of all demos in the store.
//
// Success response (200 OK):
//
//	[
//	  { "id": 1, "firstName": "John", ... },
//	  { "id": 2, "firstName": "Jane", ... }
//	]
//
// Returns an empty array [] (not null) when there are no demos. The
// order of the array is whatever the store yields — callers must not
// read meaning into it.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all demos")

		demos, err := storage.GetDemos()
		if err != nil {
			slog.Error("error getting demos", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, demos)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/demos/{id}
// Fetches a single demo by its id.
//
// Path parameter: {id} — must be a valid integer
//
// Success response (200 OK):
//
//	{ "id": 1, "firstName": "John", "lastName": "Doe", "age": 20 }
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no demo has that id
//	500 Internal     — store error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("id") extracts the {id} segment from the URL.
		// This works because Go 1.22+ supports named path parameters in
		// the ServeMux pattern: "GET /api/demos/{id}"
		id := r.PathValue("id")
		slog.Info("getting a demo", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		demo, err := store.GetDemoByID(intID)
		if errors.Is(err, storage.ErrDemoNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}
		if err != nil {
			slog.Error("error getting demo",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, demo)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Patch handles PATCH /api/demos/{id}
// Dispatches to one of the three patch protocols by Content-Type.
//
// The three real handlers are built once, at route-registration time;
// per request this only parses the media type (parameters like
// "; charset=utf-8" are stripped by mime.ParseMediaType) and forwards.
// A missing Content-Type falls through to the typed age patch — plain
// JSON is this route's default dialect; anything else is a 415
// Unsupported Media Type.
// ─────────────────────────────────────────────────────────────────────────────
func Patch(storage storage.Storage) http.HandlerFunc {
	patchAge := PatchAge(storage)
	patchMerge := PatchMerge(storage)
	patchJSON := PatchJSON(storage)

	return func(w http.ResponseWriter, r *http.Request) {
		mediaType := ""
		if contentType := r.Header.Get("Content-Type"); contentType != "" {
			mt, _, err := mime.ParseMediaType(contentType)
			if err != nil {
				response.WriteJSON(w, http.StatusUnsupportedMediaType,
					response.GeneralError(errors.New("unparseable Content-Type header")))
				return
			}
			mediaType = mt
		}

		switch mediaType {
		case mediaTypeMergePatch:
			patchMerge(w, r)
		case mediaTypeJSONPatch:
			patchJSON(w, r)
		case mediaTypeJSON, "":
			patchAge(w, r)
		default:
			response.WriteJSON(w, http.StatusUnsupportedMediaType,
				response.GeneralError(errors.New(
					"unsupported patch media type: "+mediaType)))
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// PatchAge is the typed patch variant (Content-Type: application/json).
// Updates ONLY the age field of an existing demo.
//
// Request body (JSON):
//
//	{ "age": 30 }
//
// Success response (200 OK) — the updated demo:
//
//	{ "id": 1, "firstName": "John", "lastName": "Doe", "age": 30 }
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, malformed JSON, or a
//	                   failed constraint (age missing or below 18)
//	404 Not Found    — no demo has that id
//	500 Internal     — store error
//
// ─────────────────────────────────────────────────────────────────────────────
func PatchAge(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("patching demo age", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		// Decode the patch payload
		var patch types.DemoAgePatch
		err = json.NewDecoder(r.Body).Decode(&patch)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate the patch: age is required and must be >= 18 on this
		// route. The generic patch protocols carry no such constraint.
		if err := validator.New().Struct(patch); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		updated, err := store.SaveDemoAge(intID, patch)
		if errors.Is(err, storage.ErrDemoNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}
		if err != nil {
			slog.Error("error patching demo age",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("demo age patched", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// PatchMerge is the RFC 7386 variant (Content-Type: application/merge-patch+json).
//
// The patch is a JSON document shaped like the target: members present
// in the patch replace (or, when null, remove) the corresponding
// members of the demo; members absent from the patch stay untouched.
//
//	curl -X PATCH localhost:8082/api/demos/1 \
//	     -H "Content-Type: application/merge-patch+json" \
//	     -d '{"age":30,"lastName":null}'
//
// Flow: decode the patch → look up the demo → lift the demo into the
// generic JSON tree → jsonmerge.Merge → lower the merged tree back into
// a Demo → re-validate → save. The save happens only after the whole
// round-trip succeeds, so a failing request leaves the store untouched.
//
// Error responses:
//
//	400 Bad Request  — invalid id; malformed patch document; merged
//	                   document no longer fits the Demo shape (wrong
//	                   member type, or a required field removed by a
//	                   null — the patch "deleted" firstName/lastName/age)
//	404 Not Found    — no demo has that id
//	500 Internal     — store error
//
// ─────────────────────────────────────────────────────────────────────────────
func PatchMerge(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("merge patching a demo", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		// ── Step 1: Decode the patch document ─────────────────────────
		body, err := io.ReadAll(r.Body)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if len(body) == 0 {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}

		patchNode, err := jsonmerge.Decode(body)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Look up the target demo ───────────────────────────
		demo, err := store.GetDemoByID(intID)
		if errors.Is(err, storage.ErrDemoNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		// ── Step 3: Lift the demo into the generic JSON tree ──────────
		// Marshal-then-decode converts the fixed struct into the same
		// representation the patch arrived in, so the merge algorithm
		// only ever sees one shape of data.
		demoJSON, err := json.Marshal(demo)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}
		targetNode, err := jsonmerge.Decode(demoJSON)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		// ── Step 4: Merge, then lower the result back into a Demo ─────
		mergedNode := jsonmerge.Merge(targetNode, patchNode)

		mergedJSON, err := jsonmerge.Encode(mergedNode)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		// Members the Demo shape doesn't know are dropped here; members
		// of the wrong type (say, a string age) refuse to decode and
		// bounce the request.
		var updated types.Demo
		if err := json.Unmarshal(mergedJSON, &updated); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// The path id is authoritative: a patch cannot move a record to
		// another id, whatever it did to the "id" member of the tree.
		updated.ID = intID

		// A merge can null out a required member. The result must still
		// be a valid Demo before it may replace the stored one.
		if err := validator.New().Struct(updated); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 5: Save the merged demo ──────────────────────────────
		result, err := store.SaveDemo(updated)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("demo merge patched", slog.Int64("id", result.ID))
		response.WriteJSON(w, http.StatusOK, result)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// PatchJSON is the RFC 6902 variant (Content-Type: application/json-patch+json).
//
// The patch is an ordered ARRAY of operations (add / remove / replace /
// move / copy / test), applied in order against the demo's JSON
// representation; the first failing operation aborts the whole patch.
//
//	curl -X PATCH localhost:8082/api/demos/1 \
//	     -H "Content-Type: application/json-patch+json" \
//	     -d '[{"op":"test","path":"/age","value":20},
//	          {"op":"replace","path":"/age","value":30}]'
//
// Decoding and applying the operation array is delegated to
// github.com/evanphx/json-patch; this handler owns the store round-trip
// around it. As with the merge variant, nothing is saved unless every
// operation applied and the result is a valid Demo.
//
// Error responses:
//
//	400 Bad Request           — invalid id; body is not a JSON Patch
//	                            array; patched result fails validation
//	404 Not Found             — no demo has that id
//	422 Unprocessable Entity  — an operation failed mid-apply (test
//	                            mismatch, bad path, …) or the patched
//	                            document no longer fits the Demo shape
//	500 Internal              — store error
//
// ─────────────────────────────────────────────────────────────────────────────
func PatchJSON(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("json patching a demo", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		// ── Step 1: Decode the operation array ────────────────────────
		body, err := io.ReadAll(r.Body)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if len(body) == 0 {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}

		patch, err := jsonpatch.DecodePatch(body)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Look up the target demo ───────────────────────────
		demo, err := store.GetDemoByID(intID)
		if errors.Is(err, storage.ErrDemoNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		// ── Step 3: Apply the operations to the demo's JSON form ──────
		doc, err := json.Marshal(demo)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		patched, err := patch.Apply(doc)
		if err != nil {
			// One of the operations failed — a test didn't match, a
			// path pointed nowhere, an index was out of bounds. The
			// apply is all-or-nothing and the store stays as it was.
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.GeneralError(err))
			return
		}

		// ── Step 4: Lower the patched document back into a Demo ───────
		var updated types.Demo
		if err := json.Unmarshal(patched, &updated); err != nil {
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.GeneralError(err))
			return
		}

		// The path id is authoritative (see PatchMerge).
		updated.ID = intID

		if err := validator.New().Struct(updated); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 5: Save the patched demo ─────────────────────────────
		result, err := store.SaveDemo(updated)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("demo json patched", slog.Int64("id", result.ID))
		response.WriteJSON(w, http.StatusOK, result)
	}
}
