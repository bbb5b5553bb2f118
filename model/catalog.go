/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Physical table names of the catalog.
const (
	TableDocument   = "document"
	TableLoanable   = "livres_dvd"
	TableBook       = "livre"
	TableDvd        = "dvd"
	TablePeriodical = "revue"
	TableCopy       = "exemplaire"
	TableOrder      = "commandedocument"
	TableGenre      = "genre"
	TableAudience   = "public"
	TableShelf      = "rayon"
	TableState      = "etat"

	LabelColumn = "libelle"
)

// LookupTables lists the id+label reference tables.
var LookupTables = []string{TableGenre, TableAudience, TableShelf, TableState}

// Document is the anchor row shared by books, dvds and periodicals.
type Document struct {
	bun.BaseModel `bun:"table:document"`

	ID       string `bun:"id,pk,type:varchar(10)"`
	Titre    string `bun:"titre,notnull,type:varchar(60)"`
	Image    string `bun:"image,type:varchar(500)"`
	IdRayon  int64  `bun:"idRayon,notnull"`
	IdPublic int64  `bun:"idPublic,notnull"`
	IdGenre  int64  `bun:"idGenre,notnull"`
}

// Loanable marks a document as a book or dvd.
type Loanable struct {
	bun.BaseModel `bun:"table:livres_dvd"`

	ID string `bun:"id,pk,type:varchar(10)"`
}

type Book struct {
	bun.BaseModel `bun:"table:livre"`

	ID         string `bun:"id,pk,type:varchar(10)"`
	ISBN       string `bun:"ISBN,type:varchar(13)"`
	Auteur     string `bun:"auteur,type:varchar(20)"`
	Collection string `bun:"collection,type:varchar(50)"`
}

type Dvd struct {
	bun.BaseModel `bun:"table:dvd"`

	ID          string `bun:"id,pk,type:varchar(10)"`
	Synopsis    string `bun:"synopsis,type:text"`
	Realisateur string `bun:"realisateur,type:varchar(20)"`
	Duree       int64  `bun:"duree"`
}

type Periodical struct {
	bun.BaseModel `bun:"table:revue"`

	ID              string `bun:"id,pk,type:varchar(10)"`
	Periodicite     string `bun:"periodicite,type:varchar(2)"`
	DelaiMiseADispo int64  `bun:"delaiMiseADispo"`
}

// Copy is one physical copy of a document.
type Copy struct {
	bun.BaseModel `bun:"table:exemplaire"`

	ID        string    `bun:"id,pk,type:varchar(10)"`
	Numero    int64     `bun:"numero,pk"`
	DateAchat time.Time `bun:"dateAchat,type:date"`
	Photo     string    `bun:"photo,type:varchar(500)"`
	IdEtat    int64     `bun:"idEtat,notnull"`
}

// Order is a purchase order for a book or dvd.
type Order struct {
	bun.BaseModel `bun:"table:commandedocument"`

	ID           string `bun:"id,pk,type:varchar(5)"`
	NbExemplaire int64  `bun:"nbExemplaire,notnull"`
	IdLivreDvd   string `bun:"idLivreDvd,notnull,type:varchar(10)"`
}

type Genre struct {
	bun.BaseModel `bun:"table:genre"`

	ID      int64  `bun:"id,pk"`
	Libelle string `bun:"libelle,notnull,type:varchar(20)"`
}

type Audience struct {
	bun.BaseModel `bun:"table:public"`

	ID      int64  `bun:"id,pk"`
	Libelle string `bun:"libelle,notnull,type:varchar(50)"`
}

type Shelf struct {
	bun.BaseModel `bun:"table:rayon"`

	ID      int64  `bun:"id,pk"`
	Libelle string `bun:"libelle,notnull,type:varchar(30)"`
}

type State struct {
	bun.BaseModel `bun:"table:etat"`

	ID      int64  `bun:"id,pk"`
	Libelle string `bun:"libelle,notnull,type:varchar(20)"`
}
