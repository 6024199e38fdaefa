package service

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeDocumentRepo struct {
	rows    map[uuid.UUID]model.Document
	failing bool
}

func (f *fakeDocumentRepo) Create(_ context.Context, d *model.Document) error {
	if f.failing {
		return gorm.ErrInvalidDB
	}
	d.ID = uuid.New()
	f.rows[d.ID] = *d
	return nil
}

func (f *fakeDocumentRepo) Update(_ context.Context, d *model.Document) error {
	f.rows[d.ID] = *d
	return nil
}

func (f *fakeDocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeDocumentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Document, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (f *fakeDocumentRepo) List(_ context.Context, _ repository.ListOptions) ([]model.Document, int64, error) {
	var out []model.Document
	for _, d := range f.rows {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDocumentRepo) ListForReference(_ context.Context, category, reference string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range f.rows {
		if d.Category == category && (d.VehicleNumber == reference || d.BookingID == reference || d.VendorID == reference) {
			out = append(out, d)
		}
	}
	return out, nil
}

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func insuranceMeta() model.Document {
	return model.Document{Category: model.DocCategoryVehicle, Type: "insurance", VehicleNumber: "dl01ab1234"}
}

func TestUploadStoresFile(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeDocumentRepo{rows: map[uuid.UUID]model.Document{}}
	audit := &fakeAudit{}
	svc := NewDocumentService(repo, audit, &fakeTx{}, dir)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, Actor{Username: "priya"}, insuranceMeta(), "../policy.pdf", bytes.NewReader(samplePDF))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ContentType != "application/pdf" || doc.FileName != "policy.pdf" || doc.UploadedBy != "priya" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !strings.HasSuffix(doc.StoragePath, ".pdf") {
		t.Fatalf("storage path %q lacks extension", doc.StoragePath)
	}
	if len(audit.logs) != 1 || audit.logs[0].Action != model.ActionUpload {
		t.Fatalf("expected upload audit row, got %+v", audit.logs)
	}

	found, err := svc.ForReference(ctx, model.DocCategoryVehicle, "DL 01 AB 1234")
	if err != nil || len(found) != 1 {
		t.Fatalf("ForReference = %d docs, err %v", len(found), err)
	}

	_, path, err := svc.Open(ctx, doc.ID.String())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, samplePDF) {
		t.Fatalf("stored file differs: %v", err)
	}

	if err := svc.Delete(ctx, Actor{}, doc.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still present after delete: %v", err)
	}
}

func TestUploadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	svc := NewDocumentService(&fakeDocumentRepo{rows: map[uuid.UUID]model.Document{}}, &fakeAudit{}, &fakeTx{}, dir)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, Actor{}, insuranceMeta(), "notes.txt", strings.NewReader("just some text")); !IsValidation(err) {
		t.Fatalf("text file: expected validation error, got %v", err)
	}
	if _, err := svc.Upload(ctx, Actor{}, insuranceMeta(), "empty.pdf", bytes.NewReader(nil)); !IsValidation(err) {
		t.Fatalf("empty file: expected validation error, got %v", err)
	}
	big := append(append([]byte{}, samplePDF...), make([]byte, MaxDocumentSize)...)
	if _, err := svc.Upload(ctx, Actor{}, insuranceMeta(), "big.pdf", bytes.NewReader(big)); !IsValidation(err) {
		t.Fatalf("oversized file: expected validation error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads left %d files behind", len(entries))
	}
}

func TestUploadRemovesFileWhenSaveFails(t *testing.T) {
	dir := t.TempDir()
	svc := NewDocumentService(&fakeDocumentRepo{rows: map[uuid.UUID]model.Document{}, failing: true}, &fakeAudit{}, &fakeTx{}, dir)

	if _, err := svc.Upload(context.Background(), Actor{}, insuranceMeta(), "policy.pdf", bytes.NewReader(samplePDF)); err == nil {
		t.Fatalf("expected error when the record cannot be saved")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("orphaned upload left behind")
	}
}
