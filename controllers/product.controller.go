package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-admin/catalog"
	"catalog-admin/models"
)

// GetProducts menangani pengambilan produk, disaring dengan ?q= dan ?category=.
func (ctrl *Controller) GetProducts(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	products, err := ctrl.Store.ListProducts(ctx)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	view := catalog.Filter(products, c.Query("q"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"products":   view.Items,
		"total":      view.Total,
		"state":      view.State(),
		"categories": catalog.Categories(products),
	})
}

// GetCategories mengembalikan kategori unik untuk pemilih kategori.
func (ctrl *Controller) GetCategories(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	products, err := ctrl.Store.ListProducts(ctx)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Categories(products)})
}

// GetProduct menangani pengambilan satu produk berdasarkan ID.
func (ctrl *Controller) GetProduct(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	product, err := ctrl.Store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct menangani pembuatan produk baru.
func (ctrl *Controller) CreateProduct(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.fail(c, bindError(err))
		return
	}

	form := catalog.NewForm(nil)
	if err := form.Apply(req); err != nil {
		ctrl.fail(c, err)
		return
	}
	payload, err := catalog.Reconcile(nil, form)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	product, err := ctrl.Store.CreateProduct(ctx, payload)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct menangani pembaruan data produk.
func (ctrl *Controller) UpdateProduct(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	existing, err := ctrl.Store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.fail(c, bindError(err))
		return
	}

	form := catalog.NewForm(&existing)
	if err := form.Apply(req); err != nil {
		ctrl.fail(c, err)
		return
	}
	payload, err := catalog.Reconcile(&existing, form)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	product, err := ctrl.Store.UpdateProduct(ctx, payload)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct menangani penghapusan produk beserta gambarnya di host.
func (ctrl *Controller) DeleteProduct(c *gin.Context) {
	ctx, cancel := ctrl.timeout(c.Request.Context())
	defer cancel()

	product, err := ctrl.Store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	if err := ctrl.Store.DeleteProduct(ctx, product.ID); err != nil {
		ctrl.fail(c, err)
		return
	}

	for _, img := range product.Images {
		ctrl.releaseImage(ctx, img)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// releaseImage menghapus berkas gambar dari host atau penyimpanan pratinjau.
// Kegagalan hanya dicatat; hasilnya melaporkan apakah penghapusan berhasil.
func (ctrl *Controller) releaseImage(ctx context.Context, img models.ProductImage) bool {
	if img.HostID == "" {
		if ctrl.Previews != nil && ctrl.Previews.Owns(img.URL) {
			if err := ctrl.Previews.Delete(img.URL); err != nil {
				ctrl.Log.Warn("local preview delete failed", zap.String("url", img.URL), zap.Error(err))
				return false
			}
			return true
		}
		return false
	}
	if ctrl.Host == nil {
		return false
	}

	ok, err := ctrl.Host.Delete(ctx, img.HostID)
	if err != nil || !ok {
		ctrl.Log.Warn("remote image delete failed",
			zap.String("host_id", img.HostID), zap.Bool("deleted", ok), zap.Error(err))
		return false
	}
	return true
}
