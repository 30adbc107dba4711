package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

var (
	ErrImageNotFound        = errors.New("image not found")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

// PresignedURLExpiry is how long a generated image link stays valid.
const PresignedURLExpiry = 24 * time.Hour

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// ImageService stores item images in object storage and tracks them in the
// item_images table. Uploads get a random object key under the SKU; the
// primary image's presigned URL is written back to the item row.
type ImageService interface {
	UploadImage(ctx context.Context, sku, filename string, reader io.Reader, size int64) (*models.ItemImage, error)
	ListImages(ctx context.Context, sku string) ([]*models.ItemImage, error)
	GetImageURL(ctx context.Context, id uuid.UUID) (string, error)
	SetPrimaryImage(ctx context.Context, sku string, id uuid.UUID) error
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

type imageService struct {
	client    *minio.Client
	bucket    string
	imageRepo repositories.ItemImageRepository
	itemRepo  repositories.ItemRepository
}

func NewImageService(endpoint, accessKey, secretKey, bucket string, useSSL bool, imageRepo repositories.ItemImageRepository, itemRepo repositories.ItemRepository) (ImageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &imageService{client: client, bucket: bucket, imageRepo: imageRepo, itemRepo: itemRepo}, nil
}

// EnsureBucket creates the image bucket if it does not exist. Called once
// at startup.
func (s *imageService) ensureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *imageService) UploadImage(ctx context.Context, sku, filename string, reader io.Reader, size int64) (*models.ItemImage, error) {
	sku = strings.ToUpper(sku)
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	if _, err := s.itemRepo.GetBySKU(ctx, sku); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return nil, err
	}
	objectKey := fmt.Sprintf("items/%s-%s%s", strings.ToLower(sku), hex.EncodeToString(suffix), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	image := &models.ItemImage{
		ID:        uuid.New(),
		SKU:       sku,
		ObjectKey: objectKey,
	}

	existing, err := s.imageRepo.ListBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	image.IsPrimary = len(existing) == 0

	if err := s.imageRepo.Create(ctx, image); err != nil {
		// Orphaned objects are cheap; remove eagerly but don't fail the
		// request over cleanup.
		if rmErr := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); rmErr != nil {
			logrus.WithError(rmErr).WithField("object_key", objectKey).Warn("failed to remove orphaned image object")
		}
		return nil, err
	}

	if image.IsPrimary {
		if err := s.refreshItemImageURL(ctx, sku, objectKey); err != nil {
			logrus.WithError(err).WithField("sku", sku).Warn("failed to refresh item image url")
		}
	}

	logrus.WithFields(logrus.Fields{"sku": sku, "object_key": objectKey}).Info("image uploaded")
	return image, nil
}

func (s *imageService) ListImages(ctx context.Context, sku string) ([]*models.ItemImage, error) {
	return s.imageRepo.ListBySKU(ctx, strings.ToUpper(sku))
}

func (s *imageService) GetImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrImageNotFound
		}
		return "", err
	}
	url, err := s.client.PresignedGetObject(ctx, s.bucket, image.ObjectKey, PresignedURLExpiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *imageService) SetPrimaryImage(ctx context.Context, sku string, id uuid.UUID) error {
	sku = strings.ToUpper(sku)
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}
	if image.SKU != sku {
		return ErrImageNotFound
	}
	if err := s.imageRepo.SetPrimary(ctx, sku, id); err != nil {
		return err
	}
	return s.refreshItemImageURL(ctx, sku, image.ObjectKey)
}

func (s *imageService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.imageRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, image.ObjectKey, minio.RemoveObjectOptions{}); err != nil {
		logrus.WithError(err).WithField("object_key", image.ObjectKey).Warn("failed to remove image object")
	}

	// Promote the next image when the primary was removed.
	if image.IsPrimary {
		remaining, err := s.imageRepo.ListBySKU(ctx, image.SKU)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			if err := s.imageRepo.SetPrimary(ctx, image.SKU, remaining[0].ID); err != nil {
				return err
			}
			return s.refreshItemImageURL(ctx, image.SKU, remaining[0].ObjectKey)
		}
		return s.itemRepo.UpdateField(ctx, image.SKU, "image_url", nil)
	}
	return nil
}

func (s *imageService) refreshItemImageURL(ctx context.Context, sku, objectKey string) error {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, PresignedURLExpiry, nil)
	if err != nil {
		return err
	}
	return s.itemRepo.UpdateField(ctx, sku, "image_url", url.String())
}
