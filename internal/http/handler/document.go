package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docintake/internal/config"
	"docintake/internal/http/middleware"
	"docintake/internal/model"
	"docintake/internal/service"
)

// PagesFormField is the repeated multipart field carrying page scans.
const PagesFormField = "files"

// pageURLResponse is returned by GetDocumentPage.
type pageURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// ListDocuments returns the organization's documents, newest first.
//
// @Summary  List documents
// @Tags     documents
// @Produce  json
// @Param    X-Organization-ID header string true  "Organization UUID"
// @Param    limit             query  int    false "Page size" default(10)
// @Param    offset            query  int    false "Offset"    default(0)
// @Success  200 {object} service.DocumentListResult
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Router   /documents [get]
func ListDocuments(docSvc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), middleware.OrganizationID(c), limit, offset)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument ingests one batch of page scans as a single document.
// Page order comes from the filenames, not from the order of the parts.
//
// @Summary  Ingest a scanned document
// @Tags     documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    X-Organization-ID header   string true "Organization UUID"
// @Param    files             formData file   true "Page scans (repeat the field once per page)"
// @Success  201 {object} model.Document
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Failure  502 {object} errorPayload
// @Router   /documents [post]
func UploadDocument(docSvc service.DocumentService, limits config.UploadConfig, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one page is required")
		}
		files := form.File[PagesFormField]
		if len(files) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one page is required")
		}
		if limits.MaxPages > 0 && len(files) > limits.MaxPages {
			return writeError(c, fiber.StatusBadRequest, "TOO_MANY_PAGES",
				fmt.Sprintf("at most %d pages per document", limits.MaxPages))
		}

		pages := make([]model.UploadedPage, 0, len(files))
		for _, fh := range files {
			if limits.MaxFileBytes > 0 && fh.Size > limits.MaxFileBytes {
				return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
					fmt.Sprintf("page %q exceeds %d bytes", fh.Filename, limits.MaxFileBytes))
			}
			page, err := readPage(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			pages = append(pages, page)
		}

		doc, err := docSvc.Ingest(c.UserContext(), middleware.OrganizationID(c), pages)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func readPage(fh *multipart.FileHeader) (model.UploadedPage, error) {
	f, err := fh.Open()
	if err != nil {
		return model.UploadedPage{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return model.UploadedPage{}, err
	}
	return model.UploadedPage{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// GetDocument returns one document.
//
// @Summary  Get a document
// @Tags     documents
// @Produce  json
// @Param    X-Organization-ID header string true "Organization UUID"
// @Param    id                path   string true "Document UUID"
// @Success  200 {object} model.Document
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /documents/{id} [get]
func GetDocument(docSvc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), middleware.OrganizationID(c), id)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and its archived scans.
//
// @Summary  Delete a document
// @Tags     documents
// @Param    X-Organization-ID header string true "Organization UUID"
// @Param    id                path   string true "Document UUID"
// @Success  204
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), middleware.OrganizationID(c), id); err != nil {
			return writeServiceError(c, log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetDocumentPage returns a short-lived download URL for one archived page scan.
//
// @Summary  Presigned URL of a page scan
// @Tags     documents
// @Produce  json
// @Param    X-Organization-ID header string true "Organization UUID"
// @Param    id                path   string true "Document UUID"
// @Param    page              path   int    true "Zero-based page index"
// @Success  200 {object} pageURLResponse
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /documents/{id}/pages/{page} [get]
func GetDocumentPage(docSvc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		page, err := strconv.Atoi(c.Params("page"))
		if err != nil || page < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page index")
		}

		u, err := docSvc.PageURL(c.UserContext(), middleware.OrganizationID(c), id, page)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(pageURLResponse{URL: u, ExpiresIn: int(service.PageURLExpiry.Seconds())})
	}
}
