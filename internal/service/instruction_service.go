package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"polibest/api/internal/ids"
	"polibest/api/internal/models"
)

// ErrFileNotFound signals an instruction without an attached file payload.
var ErrFileNotFound = errors.New("instruction file not found")

type InstructionStore interface {
	Create(ctx context.Context, instruction models.Instruction) error
	GetByID(ctx context.Context, id string) (models.Instruction, error)
	List(ctx context.Context) ([]models.Instruction, error)
	Update(ctx context.Context, instruction models.Instruction) (models.Instruction, error)
	Delete(ctx context.Context, id string) error
}

type FileStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Remove(ctx context.Context, key string) error
}

type InstructionInput struct {
	Title    string
	Category string
	Content  string
	FileName *string
	FileData *string // data-URL or bare base64
	FileType string
}

// InstructionService keeps instruction metadata in the database and file
// payloads in the object store. Payloads arrive base64-encoded and are
// decoded once at ingest.
type InstructionService struct {
	instructions InstructionStore
	files        FileStore
	log          zerolog.Logger
}

func NewInstructionService(instructions InstructionStore, files FileStore, log zerolog.Logger) *InstructionService {
	return &InstructionService{
		instructions: instructions,
		files:        files,
		log:          log,
	}
}

func (s *InstructionService) List(ctx context.Context) ([]models.Instruction, error) {
	return s.instructions.List(ctx)
}

func (s *InstructionService) Create(ctx context.Context, input InstructionInput) (models.Instruction, error) {
	instruction := models.Instruction{
		ID:       ids.New(),
		Title:    input.Title,
		Category: input.Category,
		Content:  input.Content,
		FileName: input.FileName,
		FileType: input.FileType,
	}
	if instruction.FileType == "" {
		instruction.FileType = "text"
	}

	if err := s.attachFile(ctx, &instruction, input.FileData); err != nil {
		return models.Instruction{}, err
	}

	if err := s.instructions.Create(ctx, instruction); err != nil {
		return models.Instruction{}, err
	}
	return instruction, nil
}

func (s *InstructionService) Update(ctx context.Context, id string, input InstructionInput) (models.Instruction, error) {
	existing, err := s.instructions.GetByID(ctx, id)
	if err != nil {
		return models.Instruction{}, err
	}

	instruction := models.Instruction{
		ID:          id,
		Title:       input.Title,
		Category:    input.Category,
		Content:     input.Content,
		FileName:    input.FileName,
		ObjectKey:   existing.ObjectKey,
		ContentType: existing.ContentType,
		FileType:    input.FileType,
		CreatedAt:   existing.CreatedAt,
	}
	if instruction.FileType == "" {
		instruction.FileType = "text"
	}

	if input.FileData != nil && *input.FileData != "" {
		if existing.ObjectKey != nil {
			if err := s.files.Remove(ctx, *existing.ObjectKey); err != nil {
				s.log.Warn().Err(err).Str("instruction_id", id).Msg("stale file cleanup failed")
			}
		}
		instruction.ObjectKey = nil
		instruction.ContentType = ""
		if err := s.attachFile(ctx, &instruction, input.FileData); err != nil {
			return models.Instruction{}, err
		}
	}

	return s.instructions.Update(ctx, instruction)
}

func (s *InstructionService) Delete(ctx context.Context, id string) error {
	existing, err := s.instructions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.ObjectKey != nil {
		if err := s.files.Remove(ctx, *existing.ObjectKey); err != nil {
			s.log.Warn().Err(err).Str("instruction_id", id).Msg("file cleanup failed")
		}
	}

	return s.instructions.Delete(ctx, id)
}

type InstructionFile struct {
	Reader      io.ReadCloser
	Size        int64
	ContentType string
	FileName    string
}

func (s *InstructionService) GetFile(ctx context.Context, id string) (InstructionFile, error) {
	instruction, err := s.instructions.GetByID(ctx, id)
	if err != nil {
		return InstructionFile{}, err
	}

	if instruction.ObjectKey == nil {
		return InstructionFile{}, ErrFileNotFound
	}

	reader, size, err := s.files.Get(ctx, *instruction.ObjectKey)
	if err != nil {
		return InstructionFile{}, err
	}

	fileName := instruction.Title + ".bin"
	if instruction.FileName != nil && *instruction.FileName != "" {
		fileName = *instruction.FileName
	}

	contentType := instruction.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return InstructionFile{
		Reader:      reader,
		Size:        size,
		ContentType: contentType,
		FileName:    fileName,
	}, nil
}

func (s *InstructionService) attachFile(ctx context.Context, instruction *models.Instruction, fileData *string) error {
	if fileData == nil || *fileData == "" {
		return nil
	}

	data, contentType, err := decodeDataURL(*fileData)
	if err != nil {
		return fmt.Errorf("decode file payload: %w", err)
	}

	key := "instructions/" + instruction.ID
	if err := s.files.Put(ctx, key, data, contentType); err != nil {
		return err
	}

	instruction.ObjectKey = &key
	instruction.ContentType = contentType
	return nil
}

// decodeDataURL accepts "data:mime/type;base64,payload" or a bare base64
// string.
func decodeDataURL(raw string) ([]byte, string, error) {
	payload := raw
	contentType := "application/octet-stream"

	if header, rest, found := strings.Cut(raw, ","); found {
		payload = rest
		if mime, ok := strings.CutPrefix(header, "data:"); ok {
			if mime, _, _ = strings.Cut(mime, ";"); mime != "" {
				contentType = mime
			}
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
