package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/asset-pipeline/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// @Summary  	Issue upload grant
// @Description Mints a presigned upload target for the raw key and resets the asset record to PENDING_UPLOAD
// @Tags 		assets
// @Produce 	json
// @Param 		ownerId path  string true  "Owner ID"
// @Param 		assetId query string false "Existing asset ID (omit to create a new asset)"
// @Success 	201 {object} response.UploadGrant
// @Failure 	404 {object} response.Error "Unknown asset"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/owners/{ownerId}/assets [post]
func (r *V1) issueUploadGrant(ctx *fiber.Ctx) error {
	ownerID := ctx.Params("ownerId")
	if ownerID == "" {
		return errorResponse(ctx, http.StatusBadRequest, "owner id is required")
	}

	asset, grant, err := r.assets.IssueUploadGrant(ctx.UserContext(), ownerID, ctx.Query("assetId"))
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "asset not found")
		}
		if errors.Is(err, errs.ErrInvalidTransition) {
			return errorResponse(ctx, http.StatusConflict, "asset is not in an uploadable state")
		}
		r.logger.Error(err, "restapi - v1 - issueUploadGrant")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	resp := response.UploadGrant{
		AssetID: asset.ID,
		Status:  string(asset.Status),
		URL:     grant.URL,
		Fields:  grant.Fields,
	}

	return ctx.Status(http.StatusCreated).JSON(resp)
}

// @Summary 	Get asset
// @Description Returns the asset record; with urls=true also presigned download URLs
// @Tags 		assets
// @Produce 	json
// @Param 		ownerId path  string true  "Owner ID"
// @Param 		assetId path  string true  "Asset ID"
// @Param 		urls 	query bool 	 false "Generate presigned download URLs"
// @Success 	200 {object} dto.Asset
// @Failure 	404 {object} response.Error "Asset not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/owners/{ownerId}/assets/{assetId} [get]
func (r *V1) getAsset(ctx *fiber.Ctx) error {
	ownerID := ctx.Params("ownerId")
	assetID := ctx.Params("assetId")
	if ownerID == "" || assetID == "" {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	asset, err := r.assets.GetAsset(ctx.UserContext(), ownerID, assetID, ctx.QueryBool("urls"))
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "asset not found")
		}
		r.logger.Error(err, "restapi - v1 - getAsset")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.JSON(asset)
}

// @Summary 	List assets
// @Description Lists all assets of an owner, paginated by an opaque cursor
// @Tags 		assets
// @Produce 	json
// @Param 		ownerId  path  string true  "Owner ID"
// @Param 		pageSize query int 	  false "Page size"
// @Param 		cursor 	 query string false "Cursor from the previous page"
// @Param 		urls 	 query bool   false "Generate presigned download URLs"
// @Success 	200 {object} dto.AssetPage
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/owners/{ownerId}/assets [get]
func (r *V1) listAssets(ctx *fiber.Ctx) error {
	ownerID := ctx.Params("ownerId")
	if ownerID == "" {
		return errorResponse(ctx, http.StatusBadRequest, "owner id is required")
	}

	page, err := r.assets.ListAssets(
		ctx.UserContext(),
		ownerID,
		ctx.QueryInt("pageSize"),
		ctx.Query("cursor"),
		ctx.QueryBool("urls"),
	)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - listAssets")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.JSON(page)
}

// @Summary 	Delete asset
// @Description Deletes the asset record and all backing objects (base, raw, hiRes)
// @Tags 		assets
// @Param		ownerId path string true "Owner ID"
// @Param		assetId path string true "Asset ID"
// @Success		204 "Deleted"
// @Failure 	404 {object} response.Error "Asset not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/owners/{ownerId}/assets/{assetId} [delete]
func (r *V1) deleteAsset(ctx *fiber.Ctx) error {
	ownerID := ctx.Params("ownerId")
	assetID := ctx.Params("assetId")
	if ownerID == "" || assetID == "" {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	err := r.assets.DeleteAsset(ctx.UserContext(), ownerID, assetID)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "asset not found")
		}
		r.logger.Error(err, "restapi - v1 - deleteAsset")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.SendStatus(http.StatusNoContent)
}

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}
