package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /indexes", s.handleListIndexes)
	mux.HandleFunc("POST /indexes", s.handleCreateIndex)
	mux.HandleFunc("GET /indexes/{index}", s.handleGetIndex)
	mux.HandleFunc("GET /indexes/{index}/info", s.handleIndexInfo)
	mux.HandleFunc("DELETE /indexes/{index}", s.handleDeleteIndex)

	mux.HandleFunc("POST /indexes/{index}/vectors", s.handleWriteVectors(false))
	mux.HandleFunc("POST /indexes/{index}/vectors/upsert", s.handleWriteVectors(true))
	mux.HandleFunc("POST /indexes/{index}/vectors/query", s.handleQuery)
	mux.HandleFunc("GET /indexes/{index}/vectors", s.handleGetVectors)
	mux.HandleFunc("DELETE /indexes/{index}/vectors", s.handleDeleteVectors)
	mux.HandleFunc("GET /indexes/{index}/vectors/list", s.handleListVectors)

	mux.HandleFunc("POST /indexes/{index}/metadata-indexes", s.handleCreateMetadataIndex)
	mux.HandleFunc("GET /indexes/{index}/metadata-indexes", s.handleListMetadataIndexes)
	mux.HandleFunc("DELETE /indexes/{index}/metadata-indexes/{property}", s.handleDeleteMetadataIndex)

	if s.cfg.ServeMetrics && s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	indexes, err := s.client.ListIndexes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, indexes)
}

func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req vectorize.CreateIndexRequest
	if !s.decode(w, r, &req) {
		return
	}
	index, err := s.client.CreateIndex(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, index)
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	index, err := s.client.GetIndex(r.Context(), r.PathValue("index"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, index)
}

func (s *Server) handleIndexInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.client.GetIndexInfo(r.Context(), r.PathValue("index"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, info)
}

func (s *Server) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.client.DeleteIndex(r.Context(), r.PathValue("index")); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, nil)
}

// handleWriteVectors accepts a JSON array of vectors, or a raw NDJSON body
// when the content type is application/x-ndjson. ?namespace= applies to
// records without their own namespace.
func (s *Server) handleWriteVectors(upsert bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index := r.PathValue("index")
		namespace := r.URL.Query().Get("namespace")

		var (
			res *vectorize.MutationResult
			err error
		)
		if isNDJSON(r) {
			payload, rerr := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
			if rerr != nil {
				badRequest(w, "invalid request body", rerr)
				return
			}
			if upsert {
				res, err = s.client.UpsertNDJSON(r.Context(), index, payload, namespace)
			} else {
				res, err = s.client.InsertNDJSON(r.Context(), index, payload, namespace)
			}
		} else {
			var vectors []vectorize.Vector
			if !s.decode(w, r, &vectors) {
				return
			}
			if upsert {
				res, err = s.client.UpsertVectors(r.Context(), index, vectors, namespace)
			} else {
				res, err = s.client.InsertVectors(r.Context(), index, vectors, namespace)
			}
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeResult(w, res)
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req vectorize.QueryRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.client.QueryVectors(r.Context(), r.PathValue("index"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleGetVectors(w http.ResponseWriter, r *http.Request) {
	vectors, err := s.client.GetVectors(r.Context(), r.PathValue("index"), r.URL.Query()["ids"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, vectors)
}

func (s *Server) handleDeleteVectors(w http.ResponseWriter, r *http.Request) {
	res, err := s.client.DeleteVectors(r.Context(), r.PathValue("index"), r.URL.Query()["ids"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleListVectors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := vectorize.ListVectorsRequest{Cursor: q.Get("cursor")}
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, fmt.Sprintf("invalid count %q", v), err)
			return
		}
		req.Count = n
	}
	res, err := s.client.ListVectors(r.Context(), r.PathValue("index"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleCreateMetadataIndex(w http.ResponseWriter, r *http.Request) {
	var req vectorize.MetadataIndex
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.client.CreateMetadataIndex(r.Context(), r.PathValue("index"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleListMetadataIndexes(w http.ResponseWriter, r *http.Request) {
	res, err := s.client.ListMetadataIndexes(r.Context(), r.PathValue("index"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, map[string]any{"metadataIndexes": res})
}

func (s *Server) handleDeleteMetadataIndex(w http.ResponseWriter, r *http.Request) {
	res, err := s.client.DeleteMetadataIndex(r.Context(), r.PathValue("index"), r.PathValue("property"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, res)
}

// decode reads a single JSON value from the body and writes a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		badRequest(w, "invalid request body", err)
		return false
	}
	return true
}

func isNDJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mt == "application/x-ndjson" || mt == "application/jsonl")
}
