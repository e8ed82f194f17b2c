package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/blogpanel/internal/domain/model"
)

// formUpload reads an optional file field. A missing field, an empty file
// input, or a urlencoded form all yield nil.
func formUpload(r *http.Request, field string) (*model.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", field, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s upload: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &model.Upload{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

// submittedField returns a pointer to the trimmed value of field when the form
// carried it. keepEmpty controls whether an empty submission counts.
func submittedField(r *http.Request, field string, keepEmpty bool) *string {
	values, ok := r.PostForm[field]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	if v == "" && !keepEmpty {
		return nil
	}
	return &v
}

// pageParam parses a 1-based page number, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func postInputFromForm(r *http.Request) (model.PostInput, error) {
	image, err := formUpload(r, "image")
	if err != nil {
		return model.PostInput{}, err
	}
	return model.PostInput{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Content:     r.PostFormValue("content"),
		Category:    strings.TrimSpace(r.PostFormValue("category")),
		IsPublished: r.PostFormValue("is_published") == "true",
		Image:       image,
	}, nil
}
