package controllers

type envelope map[string]interface{}
