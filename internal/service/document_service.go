package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxDocumentSize caps a single upload.
const MaxDocumentSize = 10 << 20

var allowedDocumentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type DocumentService interface {
	List(ctx context.Context, q ListQuery) ([]model.Document, int64, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	ForReference(ctx context.Context, category, reference string) ([]model.Document, error)
	Upload(ctx context.Context, actor Actor, meta model.Document, fileName string, file io.Reader) (*model.Document, error)
	Update(ctx context.Context, actor Actor, id string, in model.Document) (*model.Document, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Open(ctx context.Context, id string) (*model.Document, string, error)
}

type documentService struct {
	docRepo   repository.DocumentRepository
	txManager repository.TransactionManager
	audit     auditor
	uploadDir string
}

func NewDocumentService(docRepo repository.DocumentRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, uploadDir string) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		txManager: txManager,
		audit:     auditor{repo: auditRepo, entityType: "document"},
		uploadDir: uploadDir,
	}
}

// prepareDocument checks the type against the category and keeps only the
// reference field that category uses.
func prepareDocument(d *model.Document) error {
	if err := oneOf("category", d.Category, model.DocCategoryVehicle, model.DocCategoryBooking, model.DocCategoryVendor, model.DocCategoryOther); err != nil {
		return err
	}
	if !model.IsDocumentType(d.Category, d.Type) {
		return ValidationError{Field: "type", Msg: "must be one of: " + strings.Join(model.DocumentTypes[d.Category], ", ")}
	}
	vehicle, booking, vendor := d.VehicleNumber, d.BookingID, d.VendorID
	d.VehicleNumber, d.BookingID, d.VendorID = "", "", ""
	switch d.Category {
	case model.DocCategoryVehicle:
		if err := requireText("vehicleNumber", vehicle); err != nil {
			return err
		}
		d.VehicleNumber = validate.NormalizePlate(vehicle)
	case model.DocCategoryBooking:
		if err := requireText("bookingId", booking); err != nil {
			return err
		}
		d.BookingID = strings.TrimSpace(booking)
	case model.DocCategoryVendor:
		if err := requireText("vendorId", vendor); err != nil {
			return err
		}
		d.VendorID = strings.TrimSpace(vendor)
	}
	return nil
}

func (s *documentService) List(ctx context.Context, q ListQuery) ([]model.Document, int64, error) {
	docs, total, err := s.docRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, total, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	uid, err := parseID("document", id)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("document", err)
	}
	return doc, nil
}

func (s *documentService) ForReference(ctx context.Context, category, reference string) ([]model.Document, error) {
	if category == model.DocCategoryVehicle {
		reference = validate.NormalizePlate(reference)
	}
	docs, err := s.docRepo.ListForReference(ctx, category, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Upload(ctx context.Context, actor Actor, meta model.Document, fileName string, file io.Reader) (*model.Document, error) {
	doc := meta
	doc.ID = uuid.Nil
	if err := prepareDocument(&doc); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ValidationError{Field: "file", Msg: "is required"}
	}
	if len(data) > MaxDocumentSize {
		return nil, ValidationError{Field: "file", Msg: "must be 10 MB or smaller"}
	}
	mt := mimetype.Detect(data)
	allowed := false
	for _, t := range allowedDocumentTypes {
		if mt.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ValidationError{Field: "file", Msg: "unsupported file type " + mt.String()}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload dir: %w", err)
	}
	path := filepath.Join(s.uploadDir, uuid.NewString()+mt.Extension())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	doc.FileName = filepath.Base(fileName)
	doc.ContentType = mt.String()
	doc.Size = int64(len(data))
	doc.StoragePath = path
	doc.UploadedBy = actor.Username

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, &doc); err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpload, doc.ID.String(), doc.FileName, map[string]string{"category": doc.Category, "type": doc.Type})
	})
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logrus.WithError(rmErr).WithField("path", path).Warn("Failed to remove orphaned upload")
		}
		return nil, err
	}
	return &doc, nil
}

// Update changes metadata only; the stored file stays as uploaded.
func (s *documentService) Update(ctx context.Context, actor Actor, id string, in model.Document) (*model.Document, error) {
	uid, err := parseID("document", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.docRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("document", err)
	}
	doc := in
	doc.ID = existing.ID
	doc.FileName = existing.FileName
	doc.ContentType = existing.ContentType
	doc.Size = existing.Size
	doc.StoragePath = existing.StoragePath
	doc.UploadedBy = existing.UploadedBy
	doc.CreatedAt = existing.CreatedAt
	if err := prepareDocument(&doc); err != nil {
		return nil, err
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Update(txCtx, &doc); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, doc.ID.String(), doc.FileName, nil)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *documentService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("document", id)
	if err != nil {
		return err
	}
	doc, err := s.docRepo.FindByID(ctx, uid)
	if err != nil {
		return lookupErr("document", err)
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, doc.ID.String(), doc.FileName, nil)
	})
	if err != nil {
		return err
	}
	if doc.StoragePath != "" {
		if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("path", doc.StoragePath).Warn("Failed to remove document file")
		}
	}
	return nil
}

// Open returns the document and the path of its stored file.
func (s *documentService) Open(ctx context.Context, id string) (*model.Document, string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if doc.StoragePath == "" {
		return nil, "", NotFoundError{Resource: "document file"}
	}
	if _, err := os.Stat(doc.StoragePath); err != nil {
		return nil, "", NotFoundError{Resource: "document file", Err: err}
	}
	return doc, doc.StoragePath, nil
}
