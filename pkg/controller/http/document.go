package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/domain/types"
	"github.com/mopc-lab/expropia/pkg/usecase"
	"github.com/mopc-lab/expropia/pkg/utils/errutil"
	"github.com/mopc-lab/expropia/pkg/utils/safe"
)

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// bodies spill to temporary files.
const maxUploadMemory = 32 << 20

func documentIDParam(r *http.Request) types.DocumentID {
	return types.DocumentID(chi.URLParam(r, "documentID"))
}

func uploadDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid multipart form"), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "file field is required"), http.StatusBadRequest)
			return
		}
		defer safe.Close(r.Context(), file)

		typeID := r.FormValue("type")
		if typeID == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("type field is required"), http.StatusBadRequest)
			return
		}

		created, err := uc.Document.Upload(r.Context(), usecase.UploadInput{
			CaseID:      caseID,
			TypeID:      types.DocumentTypeID(typeID),
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func listCaseDocumentsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caseID, err := int64Param(r, "caseID")
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		docs, err := uc.Document.ListByCase(r.Context(), caseID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, docs)
	}
}

func getDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := uc.Document.GetDocument(r.Context(), documentIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, doc)
	}
}

func downloadDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, body, err := uc.Document.Download(r.Context(), documentIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		defer safe.Close(r.Context(), body)

		contentType := doc.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
		if doc.Size > 0 {
			w.Header().Set("Content-Length", fmt.Sprintf("%d", doc.Size))
		}

		safe.Copy(r.Context(), w, body)
	}
}

func verifyDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Valid bool `json:"valid"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Document.Verify(r.Context(), documentIDParam(r)); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, response{Valid: true})
	}
}

func reviewDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Approve bool `json:"approve"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		updated, err := uc.Document.Review(r.Context(), documentIDParam(r), req.Approve)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func deleteDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Document.DeleteDocument(r.Context(), documentIDParam(r)); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}
