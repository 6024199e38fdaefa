package handler

import (
	"net/http"
	"time"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/documents", middleware.RequirePermission("documents"))
	{
		docs.GET("", h.ListDocuments)
		docs.POST("", h.UploadDocument)
		docs.GET("/:id", h.GetDocument)
		docs.GET("/:id/file", h.DownloadDocument)
		docs.PUT("/:id", h.UpdateDocument)
		docs.DELETE("/:id", h.DeleteDocument)
	}
}

// ListDocuments returns documents, optionally only those attached to one reference
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        category   query     string  false  "vehicle, booking, vendor or other"
// @Param        reference  query     string  false  "Vehicle number, booking id or vendor id; needs category"
// @Param        search     query     string  false  "Search file name, type or reference"
// @Success      200        {object}  response.Response{data=[]model.Document}
// @Router       /api/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	if ref := c.Query("reference"); ref != "" && c.Query("category") != "" {
		docs, err := h.documentService.ForReference(c.Request.Context(), c.Query("category"), ref)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
		return
	}
	q, params, paged := listRequest(c)
	if cat := c.Query("category"); cat != "" {
		q.Category = cat
	}
	docs, total, err := h.documentService.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, docs, total, params, paged)
}

// GetDocument returns document metadata
// @Summary      Get document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=model.Document}
// @Failure      404  {object}  response.Response
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// metadataFromForm reads the non-file fields of an upload.
func metadataFromForm(c *gin.Context) (model.Document, error) {
	doc := model.Document{
		Category:      c.PostForm("category"),
		Type:          c.PostForm("type"),
		VehicleNumber: c.PostForm("vehicleNumber"),
		BookingID:     c.PostForm("bookingId"),
		VendorID:      c.PostForm("vendorId"),
		Notes:         c.PostForm("notes"),
	}
	if raw := c.PostForm("expiryDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return doc, service.ValidationError{Field: "expiryDate", Msg: "must be YYYY-MM-DD", Err: err}
		}
		doc.ExpiryDate = &t
	}
	return doc, nil
}

// UploadDocument stores a file with its metadata
// @Summary      Upload document
// @Description  PDF, JPEG, PNG, WEBP or Word files up to 10 MB
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file           formData  file    true   "File"
// @Param        category       formData  string  true   "vehicle, booking, vendor or other"
// @Param        type           formData  string  true   "Document type for the category"
// @Param        vehicleNumber  formData  string  false  "Required for vehicle documents"
// @Param        bookingId      formData  string  false  "Required for booking documents"
// @Param        vendorId       formData  string  false  "Required for vendor documents"
// @Param        expiryDate     formData  string  false  "YYYY-MM-DD"
// @Param        notes          formData  string  false  "Notes"
// @Success      201            {object}  response.Response{data=model.Document}
// @Failure      400            {object}  response.Response
// @Router       /api/documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	meta, err := metadataFromForm(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), actorFrom(c), meta, header.Filename, file)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// UpdateDocument changes a document's metadata
// @Summary      Update document metadata
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "Document ID"
// @Param        payload  body      model.Document  true  "Metadata"
// @Success      200      {object}  response.Response{data=model.Document}
// @Failure      400      {object}  response.Response
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var req model.Document
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	doc, err := h.documentService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// DownloadDocument streams the stored file
// @Summary      Download document
// @Tags         documents
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  response.Response
// @Router       /api/documents/{id}/file [get]
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	doc, path, err := h.documentService.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Type", doc.ContentType)
	c.FileAttachment(path, doc.FileName)
}

// DeleteDocument removes a document and its file
// @Summary      Delete document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Document deleted"}))
}
