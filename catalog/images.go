package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const productUploadDir = "./static/productpic"

func ensureDirExists(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func processProductImage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := utils.GetUUID()
	fileName := uniqueID + ".jpg"
	originalPath := filepath.Join(productUploadDir, fileName)
	thumbDir := filepath.Join(productUploadDir, "thumb")

	if err := ensureDirExists(productUploadDir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := ensureDirExists(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, originalPath); err != nil {
		return "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, filepath.Join(thumbDir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/productpic/" + fileName, nil
}

// UploadImages handles POST /api/admin/products/:productid/images. Accepts
// multipart form files under "images", stores originals plus 300px thumbnails
// and appends the paths to the product document.
func (h *Handlers) UploadImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	productID := ps.ByName("productid")
	if _, err := h.store.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Println("UploadImages:", err)
		http.Error(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		http.Error(w, "No images in form", http.StatusBadRequest)
		return
	}

	var savedPaths []string
	for _, file := range files {
		path, err := processProductImage(file)
		if err != nil {
			log.Println("UploadImages:", err)
			http.Error(w, "Failed to process image", http.StatusInternalServerError)
			return
		}
		savedPaths = append(savedPaths, path)
	}

	set := bson.M{"image": savedPaths[0]}
	if err := h.store.Update(ctx, productID, set); err != nil {
		log.Println("UploadImages:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if err := h.store.PushImages(ctx, productID, savedPaths); err != nil {
		log.Println("UploadImages:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "images": savedPaths})
}
