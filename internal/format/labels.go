package format

import "github.com/gosuda/backoffice/internal/domain"

// Each label function switches over a closed enumeration so that exhaustive
// linters flag a missing case. Unknown codes are returned unchanged.

func DisputeStatus(s domain.DisputeStatus) string {
	switch s {
	case domain.DisputeStatusPending:
		return "En attente"
	case domain.DisputeStatusInvestigating:
		return "En cours d'examen"
	case domain.DisputeStatusResolved:
		return "Résolu"
	case domain.DisputeStatusEscalated:
		return "Escaladé"
	case domain.DisputeStatusClosed:
		return "Clôturé"
	default:
		return string(s)
	}
}

func DisputeType(t domain.DisputeType) string {
	switch t {
	case domain.DisputeTypeQuality:
		return "Qualité"
	case domain.DisputeTypeNonPayment:
		return "Non-paiement"
	case domain.DisputeTypeFraud:
		return "Fraude"
	case domain.DisputeTypeOther:
		return "Autre"
	default:
		return string(t)
	}
}

func DisputePriority(p domain.DisputePriority) string {
	switch p {
	case domain.DisputePriorityLow:
		return "Basse"
	case domain.DisputePriorityMedium:
		return "Moyenne"
	case domain.DisputePriorityHigh:
		return "Haute"
	case domain.DisputePriorityUrgent:
		return "Urgente"
	default:
		return string(p)
	}
}

func SanctionType(t domain.SanctionType) string {
	switch t {
	case domain.SanctionTypeWarning:
		return "Avertissement"
	case domain.SanctionTypeSuspension:
		return "Suspension"
	case domain.SanctionTypeBan:
		return "Bannissement"
	default:
		return string(t)
	}
}

func SanctionStatus(s domain.SanctionStatus) string {
	switch s {
	case domain.SanctionStatusActive:
		return "Active"
	case domain.SanctionStatusExpired:
		return "Expirée"
	case domain.SanctionStatusRevoked:
		return "Révoquée"
	default:
		return string(s)
	}
}

func WithdrawalStatus(s domain.WithdrawalStatus) string {
	switch s {
	case domain.WithdrawalStatusPending:
		return "En attente"
	case domain.WithdrawalStatusProcessing:
		return "En traitement"
	case domain.WithdrawalStatusCompleted:
		return "Effectué"
	case domain.WithdrawalStatusRejected:
		return "Rejeté"
	default:
		return string(s)
	}
}

func WithdrawalMethod(m domain.WithdrawalMethod) string {
	switch m {
	case domain.WithdrawalMethodBankTransfer:
		return "Virement bancaire"
	case domain.WithdrawalMethodPayPal:
		return "PayPal"
	case domain.WithdrawalMethodMobileMoney:
		return "Mobile Money"
	default:
		return string(m)
	}
}

func CampaignStatus(s domain.CampaignStatus) string {
	switch s {
	case domain.CampaignStatusDraft:
		return "Brouillon"
	case domain.CampaignStatusActive:
		return "Active"
	case domain.CampaignStatusPaused:
		return "En pause"
	case domain.CampaignStatusCompleted:
		return "Terminée"
	case domain.CampaignStatusCancelled:
		return "Annulée"
	default:
		return string(s)
	}
}

func ExecutionStatus(s domain.ExecutionStatus) string {
	switch s {
	case domain.ExecutionStatusPending:
		return "En attente de validation"
	case domain.ExecutionStatusApproved:
		return "Validée"
	case domain.ExecutionStatusRejected:
		return "Refusée"
	default:
		return string(s)
	}
}

func UserStatus(s domain.UserStatus) string {
	switch s {
	case domain.UserStatusActive:
		return "Actif"
	case domain.UserStatusSuspended:
		return "Suspendu"
	case domain.UserStatusBanned:
		return "Banni"
	default:
		return string(s)
	}
}

func UserType(t domain.UserType) string {
	switch t {
	case domain.UserTypeAdmin:
		return "Administrateur"
	case domain.UserTypeClient:
		return "Client"
	case domain.UserTypeExecutant:
		return "Exécutant"
	default:
		return string(t)
	}
}

func EntityType(t domain.EntityType) string {
	switch t {
	case domain.EntityUser:
		return "Utilisateur"
	case domain.EntityTask:
		return "Tâche"
	case domain.EntityDispute:
		return "Litige"
	case domain.EntitySanction:
		return "Sanction"
	case domain.EntityWithdrawal:
		return "Retrait"
	case domain.EntityPayment:
		return "Paiement"
	case domain.EntityConfig:
		return "Configuration"
	case domain.EntitySession:
		return "Session"
	default:
		return string(t)
	}
}

func LogAction(a domain.LogAction) string {
	switch a {
	case domain.LogActionLogin:
		return "Connexion"
	case domain.LogActionLogout:
		return "Déconnexion"
	case domain.LogActionUserActivated:
		return "Compte réactivé"
	case domain.LogActionUserSuspended:
		return "Compte suspendu"
	case domain.LogActionUserBanned:
		return "Compte banni"
	case domain.LogActionUserCreated:
		return "Compte créé"
	case domain.LogActionTaskApproved:
		return "Tâche validée"
	case domain.LogActionTaskRejected:
		return "Tâche refusée"
	case domain.LogActionDisputeStatusChanged:
		return "Statut du litige modifié"
	case domain.LogActionDisputeAssigned:
		return "Litige assigné"
	case domain.LogActionSanctionApplied:
		return "Sanction appliquée"
	case domain.LogActionSanctionRevoked:
		return "Sanction révoquée"
	case domain.LogActionSanctionExpired:
		return "Sanction expirée"
	case domain.LogActionWithdrawalApproved:
		return "Retrait approuvé"
	case domain.LogActionWithdrawalRejected:
		return "Retrait rejeté"
	case domain.LogActionPaymentCredited:
		return "Paiement crédité"
	case domain.LogActionPaymentRefunded:
		return "Paiement remboursé"
	case domain.LogActionConfigUpdated:
		return "Paramètre modifié"
	default:
		return string(a)
	}
}
