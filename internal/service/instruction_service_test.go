package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

type fakeInstructionStore struct {
	byID map[string]models.Instruction
}

func newFakeInstructionStore() *fakeInstructionStore {
	return &fakeInstructionStore{byID: map[string]models.Instruction{}}
}

func (f *fakeInstructionStore) Create(ctx context.Context, instruction models.Instruction) error {
	f.byID[instruction.ID] = instruction
	return nil
}

func (f *fakeInstructionStore) GetByID(ctx context.Context, id string) (models.Instruction, error) {
	instruction, ok := f.byID[id]
	if !ok {
		return models.Instruction{}, repository.ErrInstructionNotFound
	}
	return instruction, nil
}

func (f *fakeInstructionStore) List(ctx context.Context) ([]models.Instruction, error) {
	out := make([]models.Instruction, 0, len(f.byID))
	for _, instruction := range f.byID {
		out = append(out, instruction)
	}
	return out, nil
}

func (f *fakeInstructionStore) Update(ctx context.Context, instruction models.Instruction) (models.Instruction, error) {
	if _, ok := f.byID[instruction.ID]; !ok {
		return models.Instruction{}, repository.ErrInstructionNotFound
	}
	f.byID[instruction.ID] = instruction
	return instruction, nil
}

func (f *fakeInstructionStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrInstructionNotFound
	}
	delete(f.byID, id)
	return nil
}

type storedObject struct {
	data        []byte
	contentType string
}

type fakeFileStore struct {
	objects map[string]storedObject
	removed []string
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{objects: map[string]storedObject{}}
}

func (f *fakeFileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.objects[key] = storedObject{data: data, contentType: contentType}
	return nil
}

func (f *fakeFileStore) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, ok := f.objects[key]
	if !ok {
		return nil, 0, ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), int64(len(obj.data)), nil
}

func (f *fakeFileStore) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.objects, key)
	return nil
}

func TestDecodeDataURL(t *testing.T) {
	t.Parallel()

	payload := base64.StdEncoding.EncodeToString([]byte("manual body"))

	tests := []struct {
		name     string
		raw      string
		wantData string
		wantType string
		wantErr  bool
	}{
		{
			name:     "full data url",
			raw:      "data:application/pdf;base64," + payload,
			wantData: "manual body",
			wantType: "application/pdf",
		},
		{
			name:     "bare base64",
			raw:      payload,
			wantData: "manual body",
			wantType: "application/octet-stream",
		},
		{
			name:     "data url without mime",
			raw:      "data:;base64," + payload,
			wantData: "manual body",
			wantType: "application/octet-stream",
		},
		{
			name:    "invalid payload",
			raw:     "data:text/plain;base64,@@not-base64@@",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, contentType, err := decodeDataURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, string(data))
			assert.Equal(t, tt.wantType, contentType)
		})
	}
}

func TestInstructionCreate_StoresDecodedFile(t *testing.T) {
	t.Parallel()

	store := newFakeInstructionStore()
	files := newFakeFileStore()
	svc := NewInstructionService(store, files, zerolog.Nop())

	fileName := "manual.pdf"
	fileData := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))

	instruction, err := svc.Create(context.Background(), InstructionInput{
		Title:    "Application manual",
		Category: "apply",
		FileName: &fileName,
		FileData: &fileData,
	})
	require.NoError(t, err)

	require.NotNil(t, instruction.ObjectKey)
	obj, ok := files.objects[*instruction.ObjectKey]
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4", string(obj.data))
	assert.Equal(t, "application/pdf", obj.contentType)

	// no explicit type defaults to text
	assert.Equal(t, "text", instruction.FileType)
}

func TestInstructionCreate_NoFile(t *testing.T) {
	t.Parallel()

	store := newFakeInstructionStore()
	files := newFakeFileStore()
	svc := NewInstructionService(store, files, zerolog.Nop())

	instruction, err := svc.Create(context.Background(), InstructionInput{
		Title:   "Plain note",
		Content: "wipe before coating",
	})
	require.NoError(t, err)
	assert.Nil(t, instruction.ObjectKey)
	assert.Empty(t, files.objects)
}

func TestInstructionUpdate_ReplacesFile(t *testing.T) {
	t.Parallel()

	store := newFakeInstructionStore()
	files := newFakeFileStore()
	svc := NewInstructionService(store, files, zerolog.Nop())

	first := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("v1"))
	instruction, err := svc.Create(context.Background(), InstructionInput{
		Title:    "Manual",
		FileData: &first,
	})
	require.NoError(t, err)
	oldKey := *instruction.ObjectKey

	second := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("v2"))
	updated, err := svc.Update(context.Background(), instruction.ID, InstructionInput{
		Title:    "Manual v2",
		FileData: &second,
	})
	require.NoError(t, err)

	assert.Contains(t, files.removed, oldKey)
	require.NotNil(t, updated.ObjectKey)
	obj := files.objects[*updated.ObjectKey]
	assert.Equal(t, "v2", string(obj.data))
}

func TestInstructionGetFile(t *testing.T) {
	t.Parallel()

	store := newFakeInstructionStore()
	files := newFakeFileStore()
	svc := NewInstructionService(store, files, zerolog.Nop())

	// metadata only, no payload
	plain, err := svc.Create(context.Background(), InstructionInput{Title: "Plain"})
	require.NoError(t, err)
	_, err = svc.GetFile(context.Background(), plain.ID)
	require.ErrorIs(t, err, ErrFileNotFound)

	fileName := "guide.pdf"
	fileData := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("guide"))
	withFile, err := svc.Create(context.Background(), InstructionInput{
		Title:    "Guide",
		FileName: &fileName,
		FileData: &fileData,
	})
	require.NoError(t, err)

	file, err := svc.GetFile(context.Background(), withFile.ID)
	require.NoError(t, err)
	defer file.Reader.Close()

	body, err := io.ReadAll(file.Reader)
	require.NoError(t, err)
	assert.Equal(t, "guide", string(body))
	assert.Equal(t, int64(5), file.Size)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "guide.pdf", file.FileName)
}

func TestInstructionDelete_RemovesFile(t *testing.T) {
	t.Parallel()

	store := newFakeInstructionStore()
	files := newFakeFileStore()
	svc := NewInstructionService(store, files, zerolog.Nop())

	fileData := base64.StdEncoding.EncodeToString([]byte("bye"))
	instruction, err := svc.Create(context.Background(), InstructionInput{
		Title:    "Obsolete",
		FileData: &fileData,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), instruction.ID))
	assert.Empty(t, files.objects)
	assert.Empty(t, store.byID)
}
