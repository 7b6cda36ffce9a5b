package web

import (
	"net/http"

	catalogStore "studio/internal/adapters/storage/catalog"
	"studio/internal/application/orchestrators"
)

// handleListPackages serves GET /api/packages; ?active=true hides retired packages.
func (a *app) handleListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := a.stores.PackageStore.List(r.Context(), catalogStore.ListFilter{
		ActiveOnly: r.URL.Query().Get("active") == "true",
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pkgs)
}

func (a *app) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	a.savePackage(w, r, "", http.StatusCreated)
}

func (a *app) handleUpdatePackage(w http.ResponseWriter, r *http.Request) {
	a.savePackage(w, r, r.PathValue("id"), http.StatusOK)
}

func (a *app) savePackage(w http.ResponseWriter, r *http.Request, id string, status int) {
	var dto packageDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	p, err := orchestrators.ExecuteSavePackage(r.Context(), dto.input(id), a.packageDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, p)
}

// handleDeletePackage leaves existing assignments untouched; they carry their own snapshot.
func (a *app) handleDeletePackage(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeletePackage(r.Context(), r.PathValue("id"), a.packageDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) packageDeps() orchestrators.SavePackageDeps {
	return orchestrators.SavePackageDeps{PackageStore: a.stores.PackageStore, Now: a.now}
}

func (a *app) handleListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := a.stores.BranchStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

func (a *app) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	a.saveBranch(w, r, "", http.StatusCreated)
}

func (a *app) handleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	a.saveBranch(w, r, r.PathValue("id"), http.StatusOK)
}

func (a *app) saveBranch(w http.ResponseWriter, r *http.Request, id string, status int) {
	var dto branchDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	b, err := orchestrators.ExecuteSaveBranch(r.Context(), dto.input(id), a.branchDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, b)
}

func (a *app) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteBranch(r.Context(), r.PathValue("id"), a.branchDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) branchDeps() orchestrators.SaveBranchDeps {
	return orchestrators.SaveBranchDeps{BranchStore: a.stores.BranchStore, Now: a.now}
}
