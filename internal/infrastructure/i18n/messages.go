package i18n

type localized struct {
	en string
	fr string
}

// messages is keyed by error code
var messages = map[string]localized{
	"NOT_FOUND": {
		en: "Resource not found",
		fr: "Ressource introuvable",
	},
	"ALREADY_EXISTS": {
		en: "Resource already exists",
		fr: "La ressource existe déjà",
	},
	"VALIDATION_ERROR": {
		en: "Invalid input provided",
		fr: "Les données fournies sont invalides",
	},
	"PASSWORD_MISMATCH": {
		en: "Passwords do not match",
		fr: "Les mots de passe ne correspondent pas",
	},
	"CONCURRENCY_CONFLICT": {
		en: "Resource was modified by another request, please retry",
		fr: "La ressource a été modifiée par une autre requête, veuillez réessayer",
	},
	"UNAUTHORIZED": {
		en: "Authentication required",
		fr: "Authentification requise",
	},
	"FORBIDDEN": {
		en: "Access to this resource is forbidden",
		fr: "L'accès à cette ressource est interdit",
	},
	"OUT_OF_STOCK": {
		en: "Product is out of stock",
		fr: "Produit en rupture de stock",
	},
	"INSUFFICIENT_STOCK": {
		en: "Insufficient stock available",
		fr: "Stock insuffisant",
	},
	"EMPTY_CART": {
		en: "Cart is empty",
		fr: "Le panier est vide",
	},
	"INVALID_TRANSITION": {
		en: "Status transition not allowed",
		fr: "Changement de statut non autorisé",
	},
	"DUPLICATE_REQUEST": {
		en: "Request has already been processed",
		fr: "La requête a déjà été traitée",
	},
	"SERVICE_UNAVAILABLE": {
		en: "Service temporarily unavailable",
		fr: "Service temporairement indisponible",
	},
	"RATE_LIMITED": {
		en: "Too many requests, please slow down",
		fr: "Trop de requêtes, veuillez patienter",
	},
	"PAYLOAD_TOO_LARGE": {
		en: "Request body too large",
		fr: "Corps de requête trop volumineux",
	},
	"BAD_REQUEST": {
		en: "Malformed request",
		fr: "Requête mal formée",
	},
	"INTERNAL_ERROR": {
		en: "An internal error occurred",
		fr: "Une erreur interne est survenue",
	},
}
