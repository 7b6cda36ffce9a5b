package web

import (
	"net/http"

	"studio/internal/application/orchestrators"
)

// handleAssignPackage serves POST /api/members/{id}/packages. A priced package
// also books its payment; both come back in the response.
func (a *app) handleAssignPackage(w http.ResponseWriter, r *http.Request) {
	var dto assignDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	res, err := orchestrators.ExecuteAssignPackage(r.Context(), orchestrators.AssignPackageInput{
		MemberID:  r.PathValue("id"),
		PackageID: dto.PackageID,
		StartDate: mustDate(dto.StartDate),
	}, orchestrators.AssignPackageDeps{
		Tx:              a.tx,
		MemberStore:     a.stores.MemberStore,
		PackageStore:    a.stores.PackageStore,
		AssignmentStore: a.stores.AssignmentStore,
		PaymentStore:    a.stores.PaymentStore,
		Outbox:          a.receiptOutbox(),
		Now:             a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (a *app) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteAssignment(r.Context(), orchestrators.DeleteAssignmentInput{
		MemberID:     r.PathValue("id"),
		AssignmentID: r.PathValue("aid"),
	}, orchestrators.DeleteAssignmentDeps{
		Tx:              a.tx,
		AssignmentStore: a.stores.AssignmentStore,
		PaymentStore:    a.stores.PaymentStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListPayments returns the member's payment history newest first with the running total.
func (a *app) handleListPayments(w http.ResponseWriter, r *http.Request) {
	res, err := a.memberDetail(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"payments":  res.Payments,
		"totalPaid": res.TotalPaid,
		"totalText": res.TotalText,
	})
}

func (a *app) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var dto paymentDTO
	if !decodeDTO(w, r, &dto) {
		return
	}
	p, err := orchestrators.ExecuteRecordPayment(r.Context(), orchestrators.RecordPaymentInput{
		MemberID: r.PathValue("id"),
		Amount:   dto.Amount,
		Date:     mustDate(dto.Date),
		Notes:    dto.Notes,
	}, orchestrators.RecordPaymentDeps{
		Tx:           a.tx,
		MemberStore:  a.stores.MemberStore,
		PaymentStore: a.stores.PaymentStore,
		Outbox:       a.receiptOutbox(),
		Now:          a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *app) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeletePayment(r.Context(), orchestrators.DeletePaymentInput{
		MemberID:  r.PathValue("id"),
		PaymentID: r.PathValue("pid"),
	}, orchestrators.DeletePaymentDeps{
		Tx:              a.tx,
		PaymentStore:    a.stores.PaymentStore,
		AssignmentStore: a.stores.AssignmentStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
