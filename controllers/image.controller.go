package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-admin/apperr"
	"catalog-admin/catalog"
	"catalog-admin/images"
	"catalog-admin/models"
)

// UploadImage meneruskan satu berkas multipart ke host gambar.
// Field "metadata" berisi JSON opsional; JSON rusak diabaikan.
func (ctrl *Controller) UploadImage(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	file := images.FromMultipart(fh)
	if err := ctrl.Uploader.Rules().Check(file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": apperr.PublicMessage(err)})
		return
	}
	if ctrl.Host == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Image host is not configured"})
		return
	}

	meta := map[string]string{}
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			meta = map[string]string{}
		}
	}

	rc, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Image upload failed"})
		return
	}
	defer rc.Close()

	up, err := ctrl.Host.Upload(ctx, images.UploadInput{
		Filename:    file.Name,
		ContentType: images.DetectType(file),
		Size:        file.Size,
		Body:        rc,
		Metadata:    meta,
	})
	if err != nil {
		ctrl.Log.Error("image upload failed", zap.String("file", file.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Image upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": up})
}

// DeleteImage menghapus gambar di host berdasarkan ?id=.
func (ctrl *Controller) DeleteImage(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Image ID is required"})
		return
	}
	if ctrl.Host == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Image host is not configured"})
		return
	}

	ok, err := ctrl.Host.Delete(ctx, id)
	if err != nil {
		ctrl.Log.Error("image delete failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Image delete failed"})
		return
	}

	message := "Image deleted successfully"
	if !ok {
		message = "Image delete failed"
	}
	c.JSON(http.StatusOK, gin.H{"success": ok, "message": message})
}

// UploadProductImages mengunggah field multipart "files" lalu menambahkannya
// ke daftar gambar produk.
func (ctrl *Controller) UploadProductImages(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	product, err := ctrl.Store.GetProduct(ctx, c.Param("id"))
	cancel()
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		ctrl.fail(c, apperr.ValidationErr("No files uploaded", nil))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		ctrl.fail(c, apperr.ValidationErr("No files uploaded", nil))
		return
	}

	// tanpa requestTimeout: satu batch bisa berisi MaxImages berkas besar
	res, err := ctrl.Uploader.Upload(c.Request.Context(), images.Batch{
		Files:     multipartFiles(headers),
		Existing:  product.Images,
		MaxImages: ctrl.MaxImages,
		Progress: func(completed, total int) {
			ctrl.Log.Info("product image upload",
				zap.String("product_id", product.ID),
				zap.Int("completed", completed),
				zap.Int("total", total))
		},
	})
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	if len(res.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images were uploaded", "result": res})
		return
	}

	primaryID := product.PrimaryImageID
	if res.PrimaryImageID != "" {
		primaryID = res.PrimaryImageID
	}
	updated, err := ctrl.saveImages(c, product, images.Add(product.Images, res.Images), primaryID)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": updated, "result": res})
}

// SetPrimaryImage menjadikan satu gambar sebagai gambar utama produk.
func (ctrl *Controller) SetPrimaryImage(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	product, err := ctrl.Store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	imageID := c.Param("imageId")
	list, err := images.SetPrimary(product.Images, imageID)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	updated, err := ctrl.saveImages(c, product, list, imageID)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": updated})
}

// DeleteProductImage membuang gambar dari produk. Kegagalan menghapus berkas
// di host tidak membatalkan penghapusan dari daftar.
func (ctrl *Controller) DeleteProductImage(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	product, err := ctrl.Store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	imageID := c.Param("imageId")
	var target *models.ProductImage
	for i := range product.Images {
		if product.Images[i].ID == imageID {
			target = &product.Images[i]
			break
		}
	}
	if target == nil {
		ctrl.fail(c, apperr.NotFoundErr("Image not found"))
		return
	}
	removed := *target

	list, primaryID := images.Remove(product.Images, imageID, product.PrimaryImageID)
	updated, err := ctrl.saveImages(c, product, list, primaryID)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	remoteDeleted := ctrl.releaseImage(ctx, removed)
	c.JSON(http.StatusOK, gin.H{"product": updated, "remote_deleted": remoteDeleted})
}

// saveImages menormalkan daftar gambar melalui formulir produk lalu menyimpannya.
func (ctrl *Controller) saveImages(c *gin.Context, product models.Product, list []models.ProductImage, primaryID string) (models.Product, error) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	form := catalog.NewForm(&product)
	form.Images = list
	form.PrimaryImageID = primaryID

	payload, err := catalog.Reconcile(&product, form)
	if err != nil {
		return models.Product{}, err
	}
	return ctrl.Store.UpdateProduct(ctx, payload)
}

func multipartFiles(headers []*multipart.FileHeader) []images.File {
	files := make([]images.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, images.FromMultipart(fh))
	}
	return files
}
