package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"glowdesk/db"
	"glowdesk/models"
	"glowdesk/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const galleryDir = "./static/gallerypic"
const thumbWidth = 480

// GET /api/gallery
func GetGallery(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := db.GalleryCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve gallery")
		return
	}
	defer cur.Close(ctx)

	images := []models.GalleryImage{}
	if err := cur.All(ctx, &images); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing gallery")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, images)
}

// POST /api/gallery
// Multipart upload: "image" file plus optional "title" field.
func UploadGalleryImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB limit
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file missing")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, handler) {
		return
	}

	if err := utils.EnsureDir(galleryDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to prepare storage")
		return
	}

	id := "img-" + utils.GetUUID()
	ext := filepath.Ext(handler.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	imagePath := filepath.Join(galleryDir, id+ext)

	dst, err := os.Create(imagePath)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unable to save file")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		utils.RespondWithError(w, http.StatusInternalServerError, "Error saving file")
		return
	}
	dst.Close()

	thumbPath := filepath.Join(galleryDir, id+"_thumb.jpg")
	if err := createThumb(imagePath, thumbPath); err != nil {
		log.Printf("Thumbnail generation failed for %s: %v", id, err)
		thumbPath = imagePath
	}

	record := models.GalleryImage{
		ImageID:   id,
		Title:     r.FormValue("title"),
		ImageURL:  "/static/gallerypic/" + filepath.Base(imagePath),
		ThumbURL:  "/static/gallerypic/" + filepath.Base(thumbPath),
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := db.GalleryCollection.InsertOne(ctx, record); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save gallery record")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, record)
}

func createThumb(srcPath, dstPath string) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	return imaging.Save(thumb, dstPath)
}

// DELETE /api/gallery
func DeleteGalleryImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Image ID required")
		return
	}

	var record models.GalleryImage
	if err := db.GalleryCollection.FindOne(ctx, bson.M{"imageid": input.ID}).Decode(&record); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Image not found")
		return
	}

	if _, err := db.GalleryCollection.DeleteOne(ctx, bson.M{"imageid": input.ID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete image")
		return
	}

	// File removal is best-effort; a stale file never breaks the listing.
	for _, url := range []string{record.ImageURL, record.ThumbURL} {
		if url == "" {
			continue
		}
		if err := os.Remove(filepath.Join(galleryDir, filepath.Base(url))); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove gallery file %s: %v", url, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Image deleted"})
}
