package app

import "fmt"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

// Notice is the short message shown to the user after an action.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Kind, n.Message)
}

const (
	msgAdded        = "Article ajouté à la commande"
	msgAlreadyAdded = "Cet article de \"%s\" est déjà dans la commande."
	msgRemoved      = "Article retiré de la commande"
	msgCSVExported  = "Export CSV téléchargé"
	msgXLSXExported = "Export Excel téléchargé"
	msgLoadFailed   = "Erreur : Impossible de charger les fichiers de données."
	msgPlaceholder  = "Commencez à taper pour rechercher dans : %s"
	msgNoSource     = "aucune mercuriale"
)
