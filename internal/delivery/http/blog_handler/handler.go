package blogHandler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"blogapp/domain/entity"
	metrics "blogapp/internal/metrics"
	"blogapp/pkg/customerrors"
	"blogapp/pkg/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BlogHandler struct {
	BlogUsecase BlogUsecase
	UploadDir   string
	Metrics     *metrics.Metrics
}

type BlogUsecase interface {

	//CreateBlog validates and persists a blog for the authenticated author.
	//imagePath is a staged local file, or empty when no image was uploaded.
	CreateBlog(ctx context.Context, userID uuid.UUID, title, content, categoriesJSON, imagePath string) (entity.Blog, error)
}

func NewBlogHandler(blogUsecase BlogUsecase, uploadDir string, m *metrics.Metrics) *BlogHandler {
	return &BlogHandler{
		BlogUsecase: blogUsecase,
		UploadDir:   uploadDir,
		Metrics:     m,
	}
}

func (h *BlogHandler) Create(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return customerrors.NewUnauthorized("Unauthorized request")
	}

	title := c.FormValue("title")
	content := c.FormValue("content")
	categories := c.FormValue("categories")

	imagePath := ""
	if file, err := c.FormFile("image"); err == nil {
		imagePath, err = h.stageUpload(file)
		if err != nil {
			return customerrors.NewInternal("Something went wrong while creating blog")
		}
		defer os.Remove(imagePath)
	}

	blog, err := h.BlogUsecase.CreateBlog(c.Request().Context(), userID, title, content, categories, imagePath)
	if err != nil {
		return err
	}

	if h.Metrics != nil {
		withImage := "false"
		if blog.Image != "" {
			withImage = "true"
		}
		h.Metrics.BlogsCreated.WithLabelValues(withImage).Inc()
	}

	return response.JSON(c, http.StatusCreated, blog, "Blog created successfully")
}

// stageUpload copies the multipart file into the local upload directory so
// the media client can stream it from disk. The caller removes the staged
// file once the upload settles.
func (h *BlogHandler) stageUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(h.UploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
