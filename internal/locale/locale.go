// Package locale holds the Arabic and French response catalogs. Every API
// response carries a localized title and message selected by the "language"
// request header; Arabic is the default.
package locale

import "strings"

// Language identifies a response catalog.
type Language string

const (
	Arabic Language = "ar"
	French Language = "fr"
)

// Default is used when the request carries no language header.
const Default = Arabic

// Parse maps a raw header value onto a supported language.
func Parse(raw string) Language {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fr", "french", "français":
		return French
	default:
		return Default
	}
}

// Key is a symbolic reference into the catalogs.
type Key string

const (
	// Error keys
	KeyAuthenticationError      Key = "AUTHENTICATION_ERROR"
	KeyInvalidCredentials       Key = "INVALID_CREDENTIALS"
	KeyLackOfCredentials        Key = "LACK_OF_CREDENTIALS"
	KeyAccessTokenExpired       Key = "ACCESS_TOKEN_EXPIRED"
	KeyRenewTokenExpired        Key = "RENEW_TOKEN_EXPIRED"
	KeyInvalidCIN               Key = "INVALID_CIN"
	KeyInvalidPassword          Key = "INVALID_PASSWORD"
	KeyMissingParameters        Key = "MISSING_PARAMETERS"
	KeyMissingAdminAccessCode   Key = "MISSING_ADMIN_ACCESS_CODE"
	KeyInvalidAdminAccessCode   Key = "INVALID_ADMIN_ACCESS_CODE"
	KeyUserAlreadyExists        Key = "USER_ALREADY_EXISTS"
	KeyNotFound                 Key = "NOT_FOUND"
	KeyForbidden                Key = "FORBIDDEN"
	KeyInternalServerError      Key = "INTERNAL_SERVER_ERROR"
	KeyInvalidRequest           Key = "INVALID_REQUEST"
	KeyVisitorAlreadyExists     Key = "VISITOR_ALREADY_EXISTS"
	KeyVisitorDeletedPreviously Key = "VISITOR_DELETED_PREVIOUSLY"
	KeyVisitorNameMismatch      Key = "VISITOR_NAME_MISMATCH"
	KeyInvalidVisitData         Key = "INVALID_VISIT_DATA"

	// Success keys
	KeySignedUp       Key = "SIGNED_UP"
	KeySignedIn       Key = "SIGNED_IN"
	KeySignedOut      Key = "SIGNED_OUT"
	KeyUserDeleted    Key = "USER_DELETED"
	KeyVisitorCreated Key = "VISITOR_CREATED"
	KeyVisitorUpdated Key = "VISITOR_UPDATED"
	KeyVisitorDeleted Key = "VISITOR_DELETED"
	KeyVisitCreated   Key = "VISIT_REGISTERED"
	KeyVisitUpdated   Key = "VISIT_UPDATED"
	KeyVisitDeleted   Key = "VISIT_DELETED"
)

// Text is a localized title/message pair.
type Text struct {
	Title   string
	Message string
}

// Lookup resolves a key in the given language. Unknown keys fall back to the
// internal-error text so a response is never sent without a human message.
func Lookup(lang Language, key Key) Text {
	catalog := arabic
	if lang == French {
		catalog = french
	}
	if text, ok := catalog[key]; ok {
		return text
	}
	return catalog[KeyInternalServerError]
}

var arabic = map[Key]Text{
	KeyAuthenticationError: {
		Title:   "مشكلة متعلقة بالمصادقة",
		Message: "خطأ في المصادقة. يرجى تقديم بيانات اعتماد صحيحة.",
	},
	KeyInvalidCredentials: {
		Title:   "بيانات اعتماد غير صحيحة",
		Message: "تم تقديم بيانات اعتماد غير صحيحة. حاول مرة أخرى.",
	},
	KeyLackOfCredentials: {
		Title:   "نقص بيانات الاعتماد",
		Message: "الطلب يفتقر إلى بيانات الاعتماد للمورد المطلوب.",
	},
	KeyAccessTokenExpired: {
		Title:   "انتهت صلاحية رمز الوصول",
		Message: "انتهت صلاحية الرمز المقدم. يرجى الحصول على رمز جديد لمتابعة الوصول.",
	},
	KeyRenewTokenExpired: {
		Title:   "انتهت صلاحية رمز التجديد",
		Message: "انتهت صلاحية الرمز المقدم. يرجى الحصول على رمز جديد لمتابعة الوصول.",
	},
	KeyInvalidCIN: {
		Title:   "رقم البطاقة الوطنية غير صالح",
		Message: "تم تقديم رقم بطاقة وطنية غير صالح. يرجى التحقق من المدخلات.",
	},
	KeyInvalidPassword: {
		Title:   "كلمة المرور غير صحيحة",
		Message: "تم تقديم كلمة مرور غير صحيحة. يجب أن تكون كلمة المرور مكونة من 8 أحرف على الأقل وتحتوي على أحرف وأرقام.",
	},
	KeyMissingParameters: {
		Title:   "معطيات ناقصة",
		Message: "الطلب يفتقر إلى معطيات مطلوبة. يرجى مراجعة المدخلات.",
	},
	KeyMissingAdminAccessCode: {
		Title:   "رمز الولوج الإداري مفقود",
		Message: "الطلب يفتقر إلى رمز الولوج الإداري المطلوب للتسجيل.",
	},
	KeyInvalidAdminAccessCode: {
		Title:   "رمز الولوج الإداري غير صحيح",
		Message: "تم تقديم رمز ولوج إداري غير صحيح. حاول مرة أخرى.",
	},
	KeyUserAlreadyExists: {
		Title:   "المستخدم موجود مسبقًا",
		Message: "مستخدم بهذا الرقم الوطني موجود مسبقًا في النظام.",
	},
	KeyNotFound: {
		Title:   "المورد غير موجود",
		Message: "المورد المطلوب غير موجود على الخادم.",
	},
	KeyForbidden: {
		Title:   "الوصول ممنوع",
		Message: "ليس لديك الصلاحيات اللازمة للوصول إلى هذا المورد.",
	},
	KeyInternalServerError: {
		Title:   "خطأ داخلي في الخادم",
		Message: "حدث خطأ غير متوقع في الخادم. يرجى المحاولة لاحقًا أو التواصل مع الدعم للمساعدة.",
	},
	KeyInvalidRequest: {
		Title:   "طلب غير صالح",
		Message: "تم تقديم طلب غير صالح. يرجى مراجعة المدخلات والمحاولة مرة أخرى.",
	},
	KeyVisitorAlreadyExists: {
		Title:   "الزائر موجود مسبقًا",
		Message: "الزائر بالمعلومات المقدمة موجود مسبقًا في النظام.",
	},
	KeyVisitorDeletedPreviously: {
		Title:   "تم حذف هذا الزائر مسبقًا",
		Message: "تم حذف هذا الزائر مسبقًا. يرجى التواصل مع الدعم لمزيد من المساعدة.",
	},
	KeyVisitorNameMismatch: {
		Title:   "معلومات اسم الزائر غير متطابقة",
		Message: "معلومات الاسم المقدمة للزائر لا تطابق السجل الحالي. يرجى التحقق من البيانات.",
	},
	KeyInvalidVisitData: {
		Title:   "بيانات زيارة غير صحيحة",
		Message: "تم تقديم بيانات زيارة غير صحيحة. يرجى مراجعة المدخلات والمحاولة مرة أخرى.",
	},

	KeySignedUp: {
		Title:   "تم إنشاء الحساب بنجاح",
		Message: "تم إنشاء حساب المستخدم في النظام بنجاح.",
	},
	KeySignedIn: {
		Title:   "تم تسجيل الدخول بنجاح",
		Message: "تم تسجيل دخول المستخدم إلى النظام بنجاح.",
	},
	KeySignedOut: {
		Title:   "تم تسجيل الخروج بنجاح",
		Message: "تم تسجيل خروج المستخدم من النظام بنجاح.",
	},
	KeyUserDeleted: {
		Title:   "تم حذف المستخدم بنجاح",
		Message: "تم حذف المستخدم من النظام بنجاح.",
	},
	KeyVisitorCreated: {
		Title:   "تم إنشاء الزائر بنجاح",
		Message: "تم إنشاء الزائر في النظام بنجاح.",
	},
	KeyVisitorUpdated: {
		Title:   "تم تحديث بيانات الزائر بنجاح",
		Message: "تم تحديث بيانات الزائر بنجاح.",
	},
	KeyVisitorDeleted: {
		Title:   "تم حذف الزائر بنجاح",
		Message: "تم حذف الزائر من النظام بنجاح.",
	},
	KeyVisitCreated: {
		Title:   "تم تسجيل الزيارة بنجاح",
		Message: "تم تسجيل الزيارة بنجاح.",
	},
	KeyVisitUpdated: {
		Title:   "تم تحديث بيانات الزيارة بنجاح",
		Message: "تم تحديث بيانات الزيارة في النظام بنجاح.",
	},
	KeyVisitDeleted: {
		Title:   "تم حذف الزيارة بنجاح",
		Message: "تم حذف الزيارة من النظام بنجاح.",
	},
}

var french = map[Key]Text{
	KeyAuthenticationError: {
		Title:   "Problème d'authentification",
		Message: "Erreur d'authentification. Veuillez fournir des identifiants valides.",
	},
	KeyInvalidCredentials: {
		Title:   "Identifiants invalides",
		Message: "Les identifiants fournis sont invalides. Veuillez réessayer.",
	},
	KeyLackOfCredentials: {
		Title:   "Identifiants manquants",
		Message: "La requête ne contient pas les identifiants requis pour la ressource demandée.",
	},
	KeyAccessTokenExpired: {
		Title:   "Jeton d'accès expiré",
		Message: "Le jeton fourni a expiré. Veuillez obtenir un nouveau jeton pour continuer.",
	},
	KeyRenewTokenExpired: {
		Title:   "Jeton de renouvellement expiré",
		Message: "Le jeton fourni a expiré. Veuillez vous reconnecter pour continuer.",
	},
	KeyInvalidCIN: {
		Title:   "CIN invalide",
		Message: "Le numéro de carte d'identité fourni est invalide. Veuillez vérifier votre saisie.",
	},
	KeyInvalidPassword: {
		Title:   "Mot de passe invalide",
		Message: "Le mot de passe doit contenir au moins 8 caractères, dont des lettres et des chiffres.",
	},
	KeyMissingParameters: {
		Title:   "Paramètres manquants",
		Message: "La requête ne contient pas tous les paramètres requis. Veuillez vérifier votre saisie.",
	},
	KeyMissingAdminAccessCode: {
		Title:   "Code d'accès administrateur manquant",
		Message: "La requête ne contient pas le code d'accès administrateur requis pour l'inscription.",
	},
	KeyInvalidAdminAccessCode: {
		Title:   "Code d'accès administrateur invalide",
		Message: "Le code d'accès administrateur fourni est invalide. Veuillez réessayer.",
	},
	KeyUserAlreadyExists: {
		Title:   "L'utilisateur existe déjà",
		Message: "Un utilisateur avec ce numéro de carte d'identité existe déjà dans le système.",
	},
	KeyNotFound: {
		Title:   "Ressource introuvable",
		Message: "La ressource demandée est introuvable sur le serveur.",
	},
	KeyForbidden: {
		Title:   "Accès interdit",
		Message: "Vous n'avez pas les autorisations nécessaires pour accéder à cette ressource.",
	},
	KeyInternalServerError: {
		Title:   "Erreur interne du serveur",
		Message: "Une erreur inattendue s'est produite. Veuillez réessayer plus tard ou contacter le support.",
	},
	KeyInvalidRequest: {
		Title:   "Requête invalide",
		Message: "La requête fournie est invalide. Veuillez vérifier votre saisie et réessayer.",
	},
	KeyVisitorAlreadyExists: {
		Title:   "Le visiteur existe déjà",
		Message: "Un visiteur avec les informations fournies existe déjà dans le système.",
	},
	KeyVisitorDeletedPreviously: {
		Title:   "Visiteur supprimé auparavant",
		Message: "Ce visiteur a été supprimé auparavant. Veuillez contacter le support pour plus d'assistance.",
	},
	KeyVisitorNameMismatch: {
		Title:   "Informations du visiteur non concordantes",
		Message: "Le nom fourni ne correspond pas à l'enregistrement existant. Veuillez vérifier les données.",
	},
	KeyInvalidVisitData: {
		Title:   "Données de visite invalides",
		Message: "Les données de visite fournies sont invalides. Veuillez vérifier votre saisie et réessayer.",
	},

	KeySignedUp: {
		Title:   "Inscription réussie",
		Message: "Le compte utilisateur a été créé avec succès dans le système.",
	},
	KeySignedIn: {
		Title:   "Connexion réussie",
		Message: "L'utilisateur s'est connecté au système avec succès.",
	},
	KeySignedOut: {
		Title:   "Déconnexion réussie",
		Message: "L'utilisateur a été déconnecté du système avec succès.",
	},
	KeyUserDeleted: {
		Title:   "L'utilisateur a été supprimé avec succès",
		Message: "L'utilisateur a été supprimé du système avec succès.",
	},
	KeyVisitorCreated: {
		Title:   "Le visiteur a été créé avec succès",
		Message: "Le visiteur a été créé dans le système avec succès.",
	},
	KeyVisitorUpdated: {
		Title:   "Les informations du visiteur ont été mises à jour avec succès",
		Message: "Les informations du visiteur ont été mises à jour avec succès.",
	},
	KeyVisitorDeleted: {
		Title:   "Le visiteur a été supprimé avec succès",
		Message: "Le visiteur a été supprimé du système avec succès.",
	},
	KeyVisitCreated: {
		Title:   "La visite a été enregistrée avec succès",
		Message: "La visite a été enregistrée avec succès.",
	},
	KeyVisitUpdated: {
		Title:   "Visite mise à jour",
		Message: "Les informations de la visite ont été mises à jour dans le système avec succès.",
	},
	KeyVisitDeleted: {
		Title:   "Visite supprimée",
		Message: "La visite a été supprimée du système avec succès.",
	},
}
