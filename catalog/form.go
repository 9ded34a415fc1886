package catalog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalog-admin/apperr"
	"catalog-admin/images"
	"catalog-admin/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// Text adalah nama dan deskripsi produk dalam satu bahasa.
type Text struct {
	Name        string
	Description string
}

// Form menampung state formulir produk yang sedang diedit.
// Bahasa default selalu terpilih.
type Form struct {
	Texts          map[models.Language]Text
	Slug           string
	Price          decimal.Decimal
	Category       string
	StockQuantity  int
	IsActive       bool
	Images         []models.ProductImage
	PrimaryImageID string

	selected map[models.Language]bool
}

// NewForm membuat formulir dari produk yang ada, atau nilai kosong bila nil.
func NewForm(existing *models.Product) *Form {
	f := &Form{
		Texts:    make(map[models.Language]Text),
		IsActive: true,
		selected: map[models.Language]bool{models.DefaultLanguage: true},
	}
	if existing == nil {
		return f
	}

	f.Slug = existing.Slug
	f.Price = existing.Price
	f.Category = existing.Category
	f.StockQuantity = existing.StockQuantity
	f.IsActive = existing.IsActive
	f.Images = append([]models.ProductImage(nil), existing.Images...)
	f.PrimaryImageID = existing.PrimaryImageID

	for _, t := range existing.Translations {
		if !t.Language.Valid() {
			continue
		}
		f.selected[t.Language] = true
		f.Texts[t.Language] = Text{Name: t.Name, Description: t.Description}
	}
	if _, ok := f.Texts[models.DefaultLanguage]; !ok {
		f.Texts[models.DefaultLanguage] = Text{Name: existing.Name, Description: existing.Description}
	}
	return f
}

// Languages mengembalikan bahasa terpilih sesuai urutan models.Languages.
func (f *Form) Languages() []models.Language {
	out := make([]models.Language, 0, len(f.selected))
	for _, lang := range models.Languages {
		if f.selected[lang] {
			out = append(out, lang)
		}
	}
	return out
}

func (f *Form) SelectLanguage(lang models.Language) error {
	if !lang.Valid() {
		return apperr.ValidationErr("Unsupported language", map[string]string{"language": string(lang)})
	}
	f.selected[lang] = true
	return nil
}

// DeselectLanguage melepas bahasa dari formulir. Bahasa default tidak bisa dilepas.
func (f *Form) DeselectLanguage(lang models.Language) bool {
	if lang == models.DefaultLanguage {
		return false
	}
	delete(f.selected, lang)
	return true
}

func (f *Form) SetText(lang models.Language, name, description string) error {
	if err := f.SelectLanguage(lang); err != nil {
		return err
	}
	f.Texts[lang] = Text{Name: name, Description: description}
	return nil
}

// Apply menyalin isi request ke formulir. Jika Translations diisi, bahasa
// terpilih diganti dengan himpunan tersebut (ditambah bahasa default).
func (f *Form) Apply(req models.ProductRequest) error {
	if len(req.Translations) > 0 {
		for _, lang := range f.Languages() {
			f.DeselectLanguage(lang)
		}
		for _, t := range req.Translations {
			if err := f.SetText(t.Language, t.Name, t.Description); err != nil {
				return err
			}
		}
	} else if req.Name != "" || req.Description != "" {
		_ = f.SetText(models.DefaultLanguage, req.Name, req.Description)
	}

	if s := strings.TrimSpace(req.Slug); s != "" {
		f.Slug = s
	}
	f.Price = req.Price
	f.Category = strings.TrimSpace(req.Category)
	f.StockQuantity = req.StockQuantity
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	if req.Images != nil {
		f.Images = req.Images
	}
	if req.PrimaryImageID != "" {
		f.PrimaryImageID = req.PrimaryImageID
	}
	return nil
}

// Reconcile menggabungkan produk lama (boleh nil) dengan formulir menjadi
// satu payload yang siap disimpan.
func Reconcile(existing *models.Product, f *Form) (models.Product, error) {
	def := f.Texts[models.DefaultLanguage]

	p := models.Product{
		Name:          strings.TrimSpace(def.Name),
		Description:   strings.TrimSpace(def.Description),
		Slug:          strings.TrimSpace(f.Slug),
		Price:         f.Price,
		Category:      f.Category,
		StockQuantity: f.StockQuantity,
		IsActive:      f.IsActive,
	}
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}

	for _, lang := range f.Languages() {
		t := f.Texts[lang]
		p.Translations = append(p.Translations, models.ProductTranslation{
			Language:    lang,
			Name:        strings.TrimSpace(t.Name),
			Description: strings.TrimSpace(t.Description),
		})
	}

	p.Images = []models.ProductImage{}
	if len(f.Images) > 0 {
		primary, _ := images.Primary(f.Images, f.PrimaryImageID)
		p.Images, _ = images.SetPrimary(f.Images, primary.ID)
		p.PrimaryImageID = primary.ID
		p.ImageURL = primary.URL
	}

	if err := check(p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func check(p models.Product) error {
	fields := map[string]string{}

	var ve validator.ValidationErrors
	if err := validate.Struct(p); err != nil {
		if !errors.As(err, &ve) {
			return apperr.Wrap(err)
		}
		for _, fe := range ve {
			fields[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
	}
	if p.Price.IsNegative() {
		fields["price"] = "must be greater than or equal to 0"
	}
	if errs := images.Validate(p.Images); len(errs) > 0 {
		fields["images"] = strings.Join(errs, "; ")
	}

	if len(fields) > 0 {
		return apperr.ValidationErr("Product data is invalid", fields)
	}
	return nil
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + param
	case "min":
		return "must have at least " + param + " entries"
	default:
		return "is invalid"
	}
}
