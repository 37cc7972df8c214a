package validators

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/angelmondragon/catalog-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxUploadBytes caps the multipart form memory budget. Four image slots at
// a few MB each fit comfortably under this.
const maxUploadBytes = 32 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

type createForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category" validate:"required"`
	Price       string `form:"price" validate:"required"`
}

// ParseCreateForm reads the multipart product-create payload. Scalar fields
// are validated strictly; the serialized size, pricing, stock, spec, and tag
// fields pass through raw for the service's lenient parsing.
func ParseCreateForm(r *http.Request) (catalog.CreateInput, error) {
	var input catalog.CreateInput

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	form := createForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Price:       strings.TrimSpace(r.FormValue("price")),
	}
	if err := validate.Struct(form); err != nil {
		return input, formatValidationErrors(err)
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
	}

	images, err := collectImages(r)
	if err != nil {
		return input, err
	}

	input = catalog.CreateInput{
		Name:          form.Name,
		Description:   form.Description,
		Category:      form.Category,
		SubCategory:   r.FormValue("subCategory"),
		Price:         price,
		Bestseller:    r.FormValue("bestseller") == "true",
		Discount:      r.FormValue("discount"),
		Sizes:         r.FormValue("sizes"),
		SizePricing:   r.FormValue("sizePricing"),
		SizeStock:     r.FormValue("sizeStock"),
		Specs:         r.FormValue("specs"),
		Tags:          r.FormValue("tags"),
		Brand:         optionalValue(r, "brand"),
		Model:         optionalValue(r, "model"),
		Warranty:      optionalValue(r, "warranty"),
		SKU:           optionalValue(r, "sku"),
		Weight:        optionalValue(r, "weight"),
		Width:         optionalValue(r, "width"),
		Height:        optionalValue(r, "height"),
		Depth:         optionalValue(r, "depth"),
		StockQuantity: optionalValue(r, "stockQuantity"),
		Images:        images,
	}
	return input, nil
}

// ParseUpdateForm reads the multipart product-update payload. Only keys
// present in the form produce a value; absent keys stay nil so the service
// keeps the stored fields.
func ParseUpdateForm(r *http.Request) (catalog.UpdateInput, error) {
	var input catalog.UpdateInput

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	if raw := optionalValue(r, "price"); raw != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*raw))
		if err != nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
		}
		input.Price = &price
	}
	if raw := optionalValue(r, "bestseller"); raw != nil {
		bestseller := *raw == "true"
		input.Bestseller = &bestseller
	}

	images, err := collectImages(r)
	if err != nil {
		return input, err
	}

	input.Name = optionalValue(r, "name")
	input.Description = optionalValue(r, "description")
	input.Category = optionalValue(r, "category")
	input.SubCategory = optionalValue(r, "subCategory")
	input.Discount = optionalValue(r, "discount")
	input.Sizes = optionalValue(r, "sizes")
	input.SizePricing = optionalValue(r, "sizePricing")
	input.SizeStock = optionalValue(r, "sizeStock")
	input.Specs = optionalValue(r, "specs")
	input.Tags = optionalValue(r, "tags")
	input.Brand = optionalValue(r, "brand")
	input.Model = optionalValue(r, "model")
	input.Warranty = optionalValue(r, "warranty")
	input.SKU = optionalValue(r, "sku")
	input.Weight = optionalValue(r, "weight")
	input.Width = optionalValue(r, "width")
	input.Height = optionalValue(r, "height")
	input.Depth = optionalValue(r, "depth")
	input.StockQuantity = optionalValue(r, "stockQuantity")
	input.Images = images
	return input, nil
}

// collectImages reads the image1..image4 upload slots and converts each file
// into a base64 data URL. An unreadable upload fails the whole request before
// any product write happens.
func collectImages(r *http.Request) (map[int]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	images := map[int]string{}
	// form fields image1..image4 map onto zero-based slots
	for slot := 0; slot < catalog.ImageSlotCount; slot++ {
		headers := r.MultipartForm.File[fmt.Sprintf("image%d", slot+1)]
		if len(headers) == 0 {
			continue
		}
		dataURL, err := encodeImage(headers[0])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("failed to process image: %s", headers[0].Filename))
		}
		images[slot] = dataURL
	}
	if len(images) == 0 {
		return nil, nil
	}
	return images, nil
}

func encodeImage(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	mime := mimetype.Detect(data)
	return fmt.Sprintf("data:%s;base64,%s", mime.String(), base64.StdEncoding.EncodeToString(data)), nil
}

func optionalValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
