package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"
)

func TestMockObjectStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMockObjectStore("uploads")
	defer store.Close()

	tests := []struct {
		name    string
		key     string
		data    []byte
		wantErr bool
	}{
		{name: "store csv", key: "uploaded/products.csv", data: []byte("id,title\n1,Fern\n")},
		{name: "store nested", key: "uploaded/2024/batch.csv", data: []byte("a\n")},
		{name: "empty key", key: "", data: []byte("x"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Store(ctx, tt.key, tt.data, &StoreOptions{ContentType: "text/csv"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Store() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			reader, err := store.Open(ctx, tt.key)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer reader.Close()

			got, _ := io.ReadAll(reader)
			if string(got) != string(tt.data) {
				t.Errorf("Open() = %q, want %q", got, tt.data)
			}
		})
	}

	if err := store.Copy(ctx, "uploaded/products.csv", "parsed/products.csv"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if err := store.Delete(ctx, "uploaded/products.csv"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if store.HasFile("uploaded/products.csv") {
		t.Error("source should be gone after delete")
	}
	if !store.HasFile("parsed/products.csv") {
		t.Error("copy should exist")
	}

	if _, err := store.Open(ctx, "uploaded/products.csv"); !IsNotFound(err) {
		t.Errorf("Open() of deleted key error = %v, want not found", err)
	}
	if err := store.Copy(ctx, "missing.csv", "parsed/missing.csv"); !IsNotFound(err) {
		t.Errorf("Copy() of missing key error = %v, want not found", err)
	}
	if err := store.Delete(ctx, "missing.csv"); err != nil {
		t.Errorf("Delete() of missing key should succeed, got %v", err)
	}

	want := []string{"parsed/products.csv", "uploaded/2024/batch.csv"}
	keys := store.Keys()
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

func TestMockObjectStore_PresignPut(t *testing.T) {
	store := NewMockObjectStore("uploads")

	raw, err := store.PresignPut(context.Background(), "uploaded/file.csv", "text/csv", time.Hour)
	if err != nil {
		t.Fatalf("PresignPut() error = %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("presigned URL does not parse: %v", err)
	}
	if u.Path != "/uploaded/file.csv" {
		t.Errorf("path = %q", u.Path)
	}
	if u.Query().Get("X-Amz-Expires") != "3600" {
		t.Errorf("expires = %q, want 3600", u.Query().Get("X-Amz-Expires"))
	}
}

func TestMockObjectStore_FailOn(t *testing.T) {
	ctx := context.Background()
	store := NewMockObjectStore("")
	boom := errors.New("boom")
	store.FailOn["PresignPut"] = boom

	_, err := store.PresignPut(ctx, "uploaded/x.csv", "text/csv", time.Minute)
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || !errors.Is(err, boom) {
		t.Fatalf("expected StorageError wrapping boom, got %v", err)
	}
	if storageErr.Op != "PresignPut" || storageErr.Key != "uploaded/x.csv" {
		t.Errorf("unexpected error context %+v", storageErr)
	}

	store.Reset()
	if _, err := store.PresignPut(ctx, "uploaded/x.csv", "text/csv", time.Minute); err != nil {
		t.Errorf("Reset() should clear failures, got %v", err)
	}
}
